package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-blog-api/internal/interface/http"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

// PostModule wires blog post routes. Creation, own-list and search are
// identity-scoped behind the token middleware; the single-post operations on
// /post/:id take no token and are not owner-scoped.
type PostModule struct {
	Handler *handlers.PostHandler
	Tokens  *helpers.TokenManager
}

func NewPostModule(h *handlers.PostHandler, tokens *helpers.TokenManager) *PostModule {
	return &PostModule{Handler: h, Tokens: tokens}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rg.GET("/post/:id", m.Handler.Get)
	rg.PUT("/post/:id", m.Handler.Update)
	rg.DELETE("/post/:id", m.Handler.Delete)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	{
		auth.POST("/create-post", m.Handler.Create)
		auth.GET("/read-post", m.Handler.ListMine)
		auth.GET("/search-post", m.Handler.Search)
	}
}
