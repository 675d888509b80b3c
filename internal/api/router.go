package api

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/noticiero/cms/internal/assets"
	"github.com/noticiero/cms/internal/config"
	"github.com/noticiero/cms/internal/service"
	"github.com/noticiero/cms/internal/sessions"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, store *sessions.Store, uploads *assets.Manager, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))

	router.LoadHTMLGlob(cfg.Server.TemplatesGlob)
	router.Static("/static", cfg.Server.StaticDir)

	// Handlers
	publicHandler := NewPublicHandler(services, store, uploads, cfg, log)
	authHandler := NewAuthHandler(services, store, log)
	adminHandler := NewAdminHandler(services, store, cfg, log)

	// Health check
	router.GET("/health", healthCheck)

	// Public pages
	router.GET("/", publicHandler.Home)
	router.GET("/category/:name", publicHandler.CategoryPage)
	router.GET("/news/:id", publicHandler.NewsDetail)
	router.GET("/uploads/:filename", publicHandler.ServeUpload)
	router.GET("/contacto", publicHandler.ContactPage)
	router.POST("/contacto", publicHandler.SubmitContact)

	// Authentication
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	// Admin panel, gated by the session middleware
	admin := router.Group("/admin")
	admin.Use(requireAdmin(store))
	{
		admin.GET("/dashboard", adminHandler.Dashboard)

		admin.GET("/news", adminHandler.NewsList)
		admin.GET("/news/add", adminHandler.NewsAddForm)
		admin.POST("/news/add", adminHandler.NewsAdd)
		admin.GET("/news/edit/:id", adminHandler.NewsEditForm)
		admin.POST("/news/edit/:id", adminHandler.NewsEdit)
		admin.POST("/news/delete/:id", adminHandler.NewsDelete)

		admin.GET("/contacts", adminHandler.ContactsList)
		admin.POST("/contacts/read/:id", adminHandler.ContactMarkRead)
		admin.POST("/contacts/delete/:id", adminHandler.ContactDelete)

		admin.GET("/users", adminHandler.UsersList)
		admin.GET("/users/add", adminHandler.UserAddForm)
		admin.POST("/users/add", adminHandler.UserAdd)
		admin.GET("/users/edit/:id", adminHandler.UserEditForm)
		admin.POST("/users/edit/:id", adminHandler.UserEdit)
		admin.POST("/users/delete/:id", adminHandler.UserDelete)
	}

	return router
}

// adminIDKey is the gin context key carrying the authenticated
// administrator's id inside admin routes
const adminIDKey = "admin_id"

// requireAdmin gates admin routes: without an authenticated administrator in
// the cookie session the request is redirected to the login page, keeping
// the originally requested path so login can forward the user back.
func requireAdmin(store *sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := store.AdminID(c.Request)
		if !ok {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, "/login?next="+next)
			c.Abort()
			return
		}
		c.Set(adminIDKey, adminID)
		c.Next()
	}
}

// currentAdminID returns the administrator id set by requireAdmin
func currentAdminID(c *gin.Context) int64 {
	return c.GetInt64(adminIDKey)
}

// parseID parses the :id route parameter
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// safeNext keeps post-login redirects on this site. Anything that is not a
// local absolute path falls back to the dashboard.
func safeNext(next string) string {
	if next == "" || next[0] != '/' || (len(next) > 1 && next[1] == '/') {
		return "/admin/dashboard"
	}
	return next
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "noticiero-cms",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.String(http.StatusInternalServerError, "Error interno del servidor")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}
