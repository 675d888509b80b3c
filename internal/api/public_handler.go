package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/noticiero/cms/internal/assets"
	"github.com/noticiero/cms/internal/config"
	"github.com/noticiero/cms/internal/models"
	"github.com/noticiero/cms/internal/service"
	"github.com/noticiero/cms/internal/sessions"
	"github.com/noticiero/cms/internal/validation"
)

// homeArticlesPerCategory is how many articles the home page shows per category
const homeArticlesPerCategory = 4

// PublicHandler handles the public-facing pages
type PublicHandler struct {
	services *service.Services
	store    *sessions.Store
	uploads  *assets.Manager
	cfg      *config.Config
	log      zerolog.Logger
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(services *service.Services, store *sessions.Store, uploads *assets.Manager, cfg *config.Config, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		services: services,
		store:    store,
		uploads:  uploads,
		cfg:      cfg,
		log:      log.With().Str("handler", "public").Logger(),
	}
}

// categorySection groups a category with its latest articles for the home page
type categorySection struct {
	Category string
	Articles []*models.Article
}

// Home handles GET / with the latest articles of every category
func (h *PublicHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	sections := make([]categorySection, 0, len(models.Categories))
	for _, category := range models.Categories {
		articles, err := h.services.Article.ListByCategory(ctx, category, homeArticlesPerCategory)
		if err != nil {
			h.log.Error().Err(err).Str("category", category).Msg("Failed to load home page articles")
			articles = nil
		}
		sections = append(sections, categorySection{Category: category, Articles: articles})
	}

	c.HTML(http.StatusOK, "index.html", pageData(c, h.store, gin.H{
		"Title":    "Noticias",
		"Sections": sections,
	}))
}

// CategoryPage handles GET /category/:name with the full listing of one category
func (h *PublicHandler) CategoryPage(c *gin.Context) {
	category, ok := models.CategoryBySlug(c.Param("name"))
	if !ok {
		h.renderNotFound(c, "Categoría no encontrada")
		return
	}

	articles, err := h.services.Article.ListByCategory(c.Request.Context(), category, 0)
	if err != nil {
		h.log.Error().Err(err).Str("category", category).Msg("Failed to load category page")
		c.String(http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.HTML(http.StatusOK, "category.html", pageData(c, h.store, gin.H{
		"Title":    category,
		"Category": category,
		"Articles": articles,
	}))
}

// NewsDetail handles GET /news/:id
func (h *PublicHandler) NewsDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c, "Noticia no encontrada")
		return
	}

	article, err := h.services.Article.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderNotFound(c, "Noticia no encontrada")
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to load article")
		c.String(http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.HTML(http.StatusOK, "news_detail.html", pageData(c, h.store, gin.H{
		"Title":   article.Title,
		"Article": article,
	}))
}

// ServeUpload handles GET /uploads/:filename, streaming asset bytes from the
// managed upload directory. Names resolving outside it are rejected no
// matter how they arrived.
func (h *PublicHandler) ServeUpload(c *gin.Context) {
	name := c.Param("filename")

	file, err := h.uploads.Open(name)
	if err != nil {
		if errors.Is(err, assets.ErrPathTraversal) {
			h.log.Warn().Str("name", name).Str("client_ip", c.ClientIP()).Msg("Rejected upload path traversal attempt")
			c.String(http.StatusBadRequest, "Solicitud inválida")
			return
		}
		if os.IsNotExist(err) {
			c.String(http.StatusNotFound, "Archivo no encontrado")
			return
		}
		h.log.Error().Err(err).Str("name", name).Msg("Failed to open asset")
		c.String(http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	defer file.Close()

	c.Header("Content-Type", contentTypeByExtension(name))
	if _, err := io.Copy(c.Writer, file); err != nil {
		h.log.Error().Err(err).Str("name", name).Msg("Failed to stream asset")
	}
}

// ContactPage handles GET /contacto
func (h *PublicHandler) ContactPage(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", pageData(c, h.store, gin.H{
		"Title": "Contacto",
		"Input": validation.ContactInput{},
	}))
}

// SubmitContact handles POST /contacto
func (h *PublicHandler) SubmitContact(c *gin.Context) {
	input := validation.ContactInput{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Subject: c.PostForm("subject"),
		Message: c.PostForm("message"),
	}

	_, err := h.services.Message.Submit(c.Request.Context(), input)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			// Re-render the form inline with the submitted values preserved
			c.HTML(http.StatusBadRequest, "contact.html", pageData(c, h.store, gin.H{
				"Title":  "Contacto",
				"Errors": verrs,
				"Input":  input,
			}))
			return
		}
		h.log.Error().Err(err).Msg("Failed to store contact message")
		h.flash(c, "danger", "Hubo un error al enviar tu mensaje. Inténtalo de nuevo.")
		c.Redirect(http.StatusFound, "/contacto")
		return
	}

	h.flash(c, "success", "¡Gracias por tu mensaje! Lo revisaremos pronto.")
	c.Redirect(http.StatusFound, "/contacto")
}

func (h *PublicHandler) flash(c *gin.Context, category, message string) {
	if err := h.store.AddFlash(c.Writer, c.Request, category, message); err != nil {
		h.log.Error().Err(err).Msg("Failed to save flash message")
	}
}

func (h *PublicHandler) renderNotFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, "error.html", pageData(c, h.store, gin.H{
		"Title":   "No encontrado",
		"Message": message,
	}))
}

// contentTypeByExtension maps the allow-listed image extensions to MIME types
func contentTypeByExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
