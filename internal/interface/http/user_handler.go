package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/domain/repository"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
	"github.com/oksasatya/go-blog-api/pkg/helpers"
	"github.com/oksasatya/go-blog-api/pkg/response"
	"github.com/oksasatya/go-blog-api/pkg/validation"
)

type UserHandler struct {
	Svc      *userapp.UserService
	Logger   *logrus.Logger
	Pictures *helpers.PictureStore
}

func NewUserHandler(svc *userapp.UserService, logger *logrus.Logger, pictures *helpers.PictureStore) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Pictures: pictures}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		// duplicate email lands here too; the constraint error is not classified
		h.Logger.WithError(err).WithField("email", req.Email).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "error registering user", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": u.ID}, "user registered")
}

// Login POST /login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, userapp.ErrInvalidCredentials):
			response.Error[any](c, http.StatusUnauthorized, "password incorrect", nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token, "expires_at": exp}, "login successful")
}

// GetAccount GET /account
func (h *UserHandler) GetAccount(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetAccount(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("get account failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to fetch account", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"email":   u.Email,
		"name":    u.Name,
		"picture": u.Picture,
	}, "account")
}

// UpdateAccount PUT /update-account (multipart: name, email, optional picture)
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	name := c.PostForm("name")
	email := c.PostForm("email")

	var picture *string
	if fh, err := c.FormFile("picture"); err == nil && fh != nil {
		path, saveErr := h.Pictures.Save(fh)
		if saveErr != nil {
			if errors.Is(saveErr, helpers.ErrPictureTooLarge) || errors.Is(saveErr, helpers.ErrPictureType) {
				response.Error[any](c, http.StatusBadRequest, saveErr.Error(), nil)
				return
			}
			h.Logger.WithError(saveErr).WithField("user_id", uid).Error("picture save failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to save picture", nil)
			return
		}
		picture = &path
	}

	if err := h.Svc.UpdateAccount(c.Request.Context(), uid, name, email, picture); err != nil {
		// a picture already written to disk is removed when the row update fails
		if picture != nil {
			if rmErr := h.Pictures.Remove(*picture); rmErr != nil {
				h.Logger.WithError(rmErr).WithField("picture", *picture).Warn("orphan picture cleanup failed")
			}
		}
		if errors.Is(err, repository.ErrNotFound) {
			response.Error[any](c, http.StatusBadRequest, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("update account failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to update account", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "account updated")
}
