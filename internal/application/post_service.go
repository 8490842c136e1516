package application

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

// PostService covers post CRUD. Single-post reads go through a redis
// cache-aside layer; the search index is maintained best-effort.
type PostService struct {
	Repo         repo.PostRepository
	Redis        *redis.Client
	CacheTTL     time.Duration
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESPostsIndex string
}

func NewPostService(r repo.PostRepository, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger, es *elasticsearch.Client, esPostsIndex string) *PostService {
	return &PostService{Repo: r, Redis: rdb, CacheTTL: cacheTTL, Logger: logger, ES: es, ESPostsIndex: esPostsIndex}
}

func postCacheKey(id int64) string {
	return "post:" + strconv.FormatInt(id, 10)
}

// Create stores a post owned by the verified caller.
func (s *PostService) Create(ctx context.Context, userID, title, detail, category string) (*entity.Post, error) {
	p := &entity.Post{UserID: userID, Title: title, Detail: detail, Category: category}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.indexPost(ctx, p)
	return p, nil
}

// ListMine returns all posts owned by the caller, newest first.
func (s *PostService) ListMine(ctx context.Context, userID string) ([]entity.Post, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Get fetches a post by id, serving from the cache when possible.
func (s *PostService) Get(ctx context.Context, id int64) (*entity.Post, error) {
	if s.Redis != nil {
		var cached entity.Post
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, postCacheKey(id), &cached); err == nil && ok {
			return &cached, nil
		}
	}
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, postCacheKey(id), p, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", id).Warn("post cache set failed")
		}
	}
	return p, nil
}

// Update rewrites title/detail/category and invalidates caches and the index.
func (s *PostService) Update(ctx context.Context, id int64, title, detail, category string) error {
	if err := s.Repo.Update(ctx, id, title, detail, category); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	if p, err := s.Repo.GetByID(ctx, id); err == nil {
		s.indexPost(ctx, p)
	}
	return nil
}

// Delete removes the post, its cache entry and its index document.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.deindexPost(ctx, id)
	return nil
}

func (s *PostService) invalidate(ctx context.Context, id int64) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, postCacheKey(id)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("post_id", id).Warn("post cache invalidate failed")
	}
}

func (s *PostService) indexPost(ctx context.Context, p *entity.Post) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         p.ID,
		"user_id":    p.UserID,
		"title":      p.Title,
		"detail":     p.Detail,
		"category":   p.Category,
		"created_at": p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESPostsIndex,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", p.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("post_id", p.ID).Warn("es index response error")
	}
}

func (s *PostService) deindexPost(ctx context.Context, id int64) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESPostsIndex, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over title, detail and category.
func (s *PostService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "detail", "category"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESPostsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
