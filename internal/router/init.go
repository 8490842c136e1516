package router

import (
	"github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/container"
	pginfra "github.com/oksasatya/go-blog-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-blog-api/internal/interface/http"
	"github.com/oksasatya/go-blog-api/internal/router/modules"
)

func buildUserModule() *modules.UserModule {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	svc := application.NewUserService(
		repo,
		container.GetTokens(),
		container.GetRabbitPub(),
		container.GetLogger(),
		container.GetConfig().MailSendEnabled,
	)
	handler := handlers.NewUserHandler(svc, container.GetLogger(), container.GetPictures())
	return modules.NewUserModule(handler, container.GetTokens())
}

func buildPostModule() *modules.PostModule {
	repo := pginfra.NewPostRepository(container.GetPGPool())
	svc := application.NewPostService(
		repo,
		container.GetRedis(),
		container.GetConfig().PostCacheTTL,
		container.GetLogger(),
		container.GetES(),
		container.GetConfig().ESPostsIndex,
	)
	handler := handlers.NewPostHandler(svc, container.GetLogger())
	return modules.NewPostModule(handler, container.GetTokens())
}

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	r.Add(buildUserModule())
	r.Add(buildPostModule())
}
