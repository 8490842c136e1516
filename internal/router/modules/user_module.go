package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-blog-api/internal/interface/http"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

// UserModule wires account routes.
// Public: POST /register, POST /login
// Protected: GET /account, PUT /update-account
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  *helpers.TokenManager
}

func NewUserModule(h *handlers.UserHandler, tokens *helpers.TokenManager) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	{
		auth.GET("/account", m.Handler.GetAccount)
		auth.PUT("/update-account", m.Handler.UpdateAccount)
	}
}
