package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
	handlers "github.com/oksasatya/go-blog-api/internal/interface/http"
	"github.com/oksasatya/go-blog-api/internal/router/modules"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// memUserRepo is an in-memory repository.UserRepository with a unique-email
// constraint, standing in for the users table.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // by id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return errors.New(`duplicate key value violates unique constraint "users_email_key"`)
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id, name, email string, picture *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Name = name
	u.Email = email
	if picture != nil {
		p := *picture
		u.Picture = &p
	}
	u.UpdatedAt = time.Now()
	return nil
}

var _ repository.UserRepository = (*memUserRepo)(nil)

// memPostRepo is an in-memory repository.PostRepository standing in for the
// posts table.
type memPostRepo struct {
	mu    sync.Mutex
	posts map[int64]*entity.Post
	next  int64
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[int64]*entity.Post), next: 1}
}

func (r *memPostRepo) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.next
	r.next++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.posts[p.ID] = &cp
	return nil
}

func (r *memPostRepo) ListByUser(_ context.Context, userID string) ([]entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Post
	for _, p := range r.posts {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPostRepo) GetByID(_ context.Context, id int64) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) Update(_ context.Context, id int64, title, detail, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Title = title
	p.Detail = detail
	p.Category = category
	p.UpdatedAt = time.Now()
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

var _ repository.PostRepository = (*memPostRepo)(nil)

type testApp struct {
	Router    *gin.Engine
	Users     *memUserRepo
	Posts     *memPostRepo
	Tokens    *helpers.TokenManager
	UploadDir string
}

// newTestApp wires both feature modules against in-memory stores, with no
// redis, broker or search backend attached.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := helpers.NewTokenManager("test-secret", 20*time.Hour)
	users := newMemUserRepo()
	posts := newMemPostRepo()
	logger := testLogger()

	uploadDir := t.TempDir()
	pictures, err := helpers.NewPictureStore(uploadDir, 8<<20, []string{".png", ".jpg", ".jpeg"})
	require.NoError(t, err)

	userSvc := application.NewUserService(users, tokens, nil, logger, false)
	postSvc := application.NewPostService(posts, nil, 0, logger, nil, "")

	r := gin.New()
	root := r.Group("/")
	modules.NewUserModule(handlers.NewUserHandler(userSvc, logger, pictures), tokens).Register(root)
	modules.NewPostModule(handlers.NewPostHandler(postSvc, logger), tokens).Register(root)

	return &testApp{Router: r, Users: users, Posts: posts, Tokens: tokens, UploadDir: uploadDir}
}

func (a *testApp) do(t *testing.T, method, path, token string, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func (a *testApp) doJSON(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	return a.do(t, method, path, token, body, "application/json")
}

// register creates an account and returns a login token for it.
func (a *testApp) register(t *testing.T, email, password, name string) string {
	t.Helper()
	w := a.doJSON(t, "POST", "/register", "",
		`{"email":"`+email+`","password":"`+password+`","name":"`+name+`"}`)
	require.Equal(t, 201, w.Code)

	w = a.doJSON(t, "POST", "/login", "",
		`{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, 200, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}
