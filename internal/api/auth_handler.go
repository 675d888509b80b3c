package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/noticiero/cms/internal/service"
	"github.com/noticiero/cms/internal/sessions"
	"github.com/noticiero/cms/internal/validation"
)

// AuthHandler handles the login and logout routes
type AuthHandler struct {
	services *service.Services
	store    *sessions.Store
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, store *sessions.Store, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		store:    store,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// ShowLogin handles GET /login
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if _, ok := h.store.AdminID(c.Request); ok {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}

	c.HTML(http.StatusOK, "login.html", pageData(c, h.store, gin.H{
		"Title": "Iniciar Sesión",
		"Next":  c.Query("next"),
	}))
}

// Login handles POST /login. On success the session is bound to the
// administrator and the user is forwarded to the page they originally asked
// for, when one was preserved.
func (h *AuthHandler) Login(c *gin.Context) {
	input := validation.LoginInput{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}
	next := c.PostForm("next")

	user, err := h.services.Auth.Authenticate(c.Request.Context(), input)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.log.Error().Err(err).Msg("Login failed on storage error")
		}
		h.flash(c, "danger", "Credenciales inválidas o no tienes permiso de administrador.")
		target := "/login"
		if next != "" {
			target += "?next=" + url.QueryEscape(next)
		}
		c.Redirect(http.StatusFound, target)
		return
	}

	if err := h.store.SetAdminID(c.Writer, c.Request, user.ID); err != nil {
		h.log.Error().Err(err).Msg("Failed to save session")
		h.flash(c, "danger", "Error de sesión. Inténtalo de nuevo.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.Redirect(http.StatusFound, safeNext(next))
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := h.store.AdminID(c.Request); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if err := h.store.Clear(c.Writer, c.Request); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear session")
		c.String(http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	h.flash(c, "info", "Has cerrado sesión exitosamente.")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) flash(c *gin.Context, category, message string) {
	if err := h.store.AddFlash(c.Writer, c.Request, category, message); err != nil {
		h.log.Error().Err(err).Msg("Failed to save flash message")
	}
}
