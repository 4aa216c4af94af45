// Package httpapi exposes the authentication service over HTTP/JSON.
// It is thin glue: request decoding, error-to-status mapping and nothing
// else; all decision logic stays in the identity package.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"authd/internal/common"
	"authd/internal/logging"
	"authd/internal/server/identity"
	"authd/internal/server/models"
)

// AuthService is the slice of the authentication service the transport needs.
type AuthService interface {
	Register(ctx context.Context, draft *models.Draft) (*identity.Session, error)
	Login(ctx context.Context, email, password string) (*identity.Session, error)
	FindByID(ctx context.Context, id string) (*models.Identity, error)
	ListAll(ctx context.Context) ([]models.Identity, error)
}

type Handler struct {
	auth   AuthService
	logger logging.Logger
}

func NewHandler(auth AuthService, logger logging.Logger) *Handler {
	return &Handler{auth: auth, logger: logger.With("module", "httpapi")}
}

// Routes registers the handler's endpoints on the router.
func (h *Handler) Routes(r *gin.Engine) {
	g := r.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
}

type registerRequest struct {
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Identity *models.Identity `json:"identity"`
	Token    string           `json:"token"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.auth.Register(c.Request.Context(), &models.Draft{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateIdentity):
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
		case errors.Is(err, common.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error(c.Request.Context(), "register failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{Identity: session.Identity, Token: session.Token})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error(c.Request.Context(), "login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, sessionResponse{Identity: session.Identity, Token: session.Token})
}

func (h *Handler) GetByID(c *gin.Context) {
	id := c.Param("id")

	found, err := h.auth.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.logger.Error(c.Request.Context(), "lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) List(c *gin.Context) {
	identities, err := h.auth.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), "list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, identities)
}
