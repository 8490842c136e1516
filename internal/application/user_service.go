package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	repo "github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
	"github.com/oksasatya/go-blog-api/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService covers registration, login and account profile operations.
type UserService struct {
	Repo        repo.UserRepository
	Tokens      *helpers.TokenManager
	Pub         *helpers.RabbitPublisher
	Logger      *logrus.Logger
	MailEnabled bool
}

func NewUserService(r repo.UserRepository, tokens *helpers.TokenManager, pub *helpers.RabbitPublisher, logger *logrus.Logger, mailEnabled bool) *UserService {
	return &UserService{Repo: r, Tokens: tokens, Pub: pub, Logger: logger, MailEnabled: mailEnabled}
}

// Register hashes the password and creates the account. A duplicate email
// surfaces as the store's constraint error, unclassified.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Password: hash, Name: name}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.enqueueWelcome(ctx, u)
	return u, nil
}

// enqueueWelcome publishes a welcome email job; failures are logged, never
// surfaced to the registering client.
func (s *UserService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "welcome",
		Data:     map[string]any{"Name": u.Name},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("welcome email enqueue failed")
	}
}

// Login verifies the credentials and issues a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", time.Time{}, ErrUserNotFound
		}
		return "", time.Time{}, err
	}
	if !helpers.CheckPassword(u.Password, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("token issue failed")
		}
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// GetAccount loads the acting user's profile.
func (s *UserService) GetAccount(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateAccount updates name and email; picture is replaced only when non-nil.
// repo.ErrNotFound propagates for the handler's no-rows-affected contract.
func (s *UserService) UpdateAccount(ctx context.Context, userID, name, email string, picture *string) error {
	return s.Repo.UpdateProfile(ctx, userID, name, email, picture)
}
