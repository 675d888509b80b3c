package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/noticiero/cms/internal/assets"
	"github.com/noticiero/cms/internal/config"
	"github.com/noticiero/cms/internal/models"
	"github.com/noticiero/cms/internal/service"
	"github.com/noticiero/cms/internal/sessions"
	"github.com/noticiero/cms/internal/validation"
)

// AdminHandler handles the login-gated admin panel
type AdminHandler struct {
	services *service.Services
	store    *sessions.Store
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, store *sessions.Store, cfg *config.Config, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		store:    store,
		cfg:      cfg,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// Dashboard handles GET /admin/dashboard with content counts
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	totalNews, err := h.services.Article.Count(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to count articles")
	}
	totalMessages, err := h.services.Message.Count(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to count messages")
	}

	c.HTML(http.StatusOK, "admin_dashboard.html", pageData(c, h.store, gin.H{
		"Title":         "Panel de Administración",
		"TotalNews":     totalNews,
		"TotalMessages": totalMessages,
	}))
}

// --- Article management ---

// NewsList handles GET /admin/news
func (h *AdminHandler) NewsList(c *gin.Context) {
	articles, err := h.services.Article.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list articles")
		h.flash(c, "danger", "No se pudieron cargar las noticias.")
	}

	c.HTML(http.StatusOK, "admin_news.html", pageData(c, h.store, gin.H{
		"Title":    "Gestión de Noticias",
		"Articles": articles,
	}))
}

// NewsAddForm handles GET /admin/news/add
func (h *AdminHandler) NewsAddForm(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_news_form.html", pageData(c, h.store, gin.H{
		"Title":      "Añadir Noticia",
		"Categories": models.Categories,
		"Input":      validation.ArticleInput{},
	}))
}

// NewsAdd handles POST /admin/news/add
func (h *AdminHandler) NewsAdd(c *gin.Context) {
	input, image, ok := h.bindArticleForm(c)
	if !ok {
		return
	}
	if image != nil {
		if closer, ok := image.File.(io.Closer); ok {
			defer closer.Close()
		}
	}

	_, err := h.services.Article.Create(c.Request.Context(), input, image)
	if err != nil {
		h.renderArticleForm(c, "Añadir Noticia", nil, input, err)
		return
	}

	h.flash(c, "success", "¡Noticia creada con éxito!")
	c.Redirect(http.StatusFound, "/admin/news")
}

// NewsEditForm handles GET /admin/news/edit/:id
func (h *AdminHandler) NewsEditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	article, err := h.services.Article.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderNotFound(c)
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to load article")
		c.String(http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.HTML(http.StatusOK, "admin_news_form.html", pageData(c, h.store, gin.H{
		"Title":      "Editar Noticia",
		"Categories": models.Categories,
		"Article":    article,
		"Input": validation.ArticleInput{
			Title:    article.Title,
			Category: article.Category,
			Author:   article.Author,
			Content:  article.Content,
		},
	}))
}

// NewsEdit handles POST /admin/news/edit/:id
func (h *AdminHandler) NewsEdit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	input, image, ok := h.bindArticleForm(c)
	if !ok {
		return
	}
	if image != nil {
		if closer, ok := image.File.(io.Closer); ok {
			defer closer.Close()
		}
	}
	deleteImage := c.PostForm("delete_image") != ""

	article, err := h.services.Article.Update(c.Request.Context(), id, input, image, deleteImage)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderNotFound(c)
			return
		}
		h.renderArticleForm(c, "Editar Noticia", article, input, err)
		return
	}

	h.flash(c, "success", "Noticia actualizada con éxito!")
	c.Redirect(http.StatusFound, "/admin/news")
}

// NewsDelete handles POST /admin/news/delete/:id
func (h *AdminHandler) NewsDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	if err := h.services.Article.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderNotFound(c)
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to delete article")
		h.flash(c, "danger", "Error al eliminar la noticia.")
		c.Redirect(http.StatusFound, "/admin/news")
		return
	}

	h.flash(c, "success", "Noticia eliminada correctamente.")
	c.Redirect(http.StatusFound, "/admin/news")
}

// bindArticleForm extracts the article fields and the optional image upload
// from a multipart form. The request body is capped at the configured upload
// size before parsing.
func (h *AdminHandler) bindArticleForm(c *gin.Context) (validation.ArticleInput, *service.Upload, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Uploads.MaxSize)

	input := validation.ArticleInput{
		Title:    c.PostForm("title"),
		Category: c.PostForm("category"),
		Author:   c.PostForm("author"),
		Content:  c.PostForm("content"),
	}

	header, err := c.FormFile("image_file")
	if err != nil {
		// A form without a file part and a plain urlencoded form both mean
		// "no image"
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return input, nil, true
		}
		h.log.Warn().Err(err).Msg("Failed to parse upload form")
		h.flash(c, "danger", "El archivo es demasiado grande o el formulario es inválido.")
		c.Redirect(http.StatusFound, "/admin/news")
		return input, nil, false
	}

	file, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to open uploaded file")
		h.flash(c, "danger", "No se pudo leer el archivo subido.")
		c.Redirect(http.StatusFound, "/admin/news")
		return input, nil, false
	}

	return input, &service.Upload{File: file, Filename: header.Filename}, true
}

// renderArticleForm re-renders the add/edit form after a failed submit,
// preserving the entered values. Storage error detail is logged, never shown.
func (h *AdminHandler) renderArticleForm(c *gin.Context, title string, article *models.Article, input validation.ArticleInput, err error) {
	data := gin.H{
		"Title":      title,
		"Categories": models.Categories,
		"Input":      input,
	}
	if article != nil {
		data["Article"] = article
	}

	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		data["Errors"] = verrs
	case errors.Is(err, assets.ErrUnsupportedFileType):
		data["Errors"] = validation.Errors{{Field: "image_file", Message: "Tipo de archivo de imagen no permitido."}}
	default:
		h.log.Error().Err(err).Msg("Failed to save article")
		data["Errors"] = validation.Errors{{Field: "", Message: "Error al guardar en la base de datos. Inténtalo de nuevo."}}
	}

	c.HTML(http.StatusBadRequest, "admin_news_form.html", pageData(c, h.store, data))
}

// --- Contact message moderation ---

// ContactsList handles GET /admin/contacts
func (h *AdminHandler) ContactsList(c *gin.Context) {
	messages, err := h.services.Message.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list messages")
		h.flash(c, "danger", "No se pudieron cargar los mensajes.")
	}

	c.HTML(http.StatusOK, "admin_contacts.html", pageData(c, h.store, gin.H{
		"Title":    "Mensajes de Contacto",
		"Messages": messages,
	}))
}

// ContactMarkRead handles POST /admin/contacts/read/:id
func (h *AdminHandler) ContactMarkRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	if err := h.services.Message.MarkRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderNotFound(c)
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to mark message read")
		h.flash(c, "danger", "Error al actualizar el mensaje.")
	}
	c.Redirect(http.StatusFound, "/admin/contacts")
}

// ContactDelete handles POST /admin/contacts/delete/:id
func (h *AdminHandler) ContactDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	if err := h.services.Message.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderNotFound(c)
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to delete message")
		h.flash(c, "danger", "Error al eliminar el mensaje.")
		c.Redirect(http.StatusFound, "/admin/contacts")
		return
	}

	h.flash(c, "success", "Mensaje eliminado.")
	c.Redirect(http.StatusFound, "/admin/contacts")
}

// --- Administrator account management ---

// UsersList handles GET /admin/users
func (h *AdminHandler) UsersList(c *gin.Context) {
	users, err := h.services.User.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list users")
		h.flash(c, "danger", "No se pudieron cargar los usuarios.")
	}

	c.HTML(http.StatusOK, "admin_users.html", pageData(c, h.store, gin.H{
		"Title":          "Gestión de Usuarios",
		"Users":          users,
		"CurrentAdminID": currentAdminID(c),
	}))
}

// UserAddForm handles GET /admin/users/add
func (h *AdminHandler) UserAddForm(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_user_form.html", pageData(c, h.store, gin.H{
		"Title": "Añadir Usuario",
		"Input": validation.UserInput{},
	}))
}

// UserAdd handles POST /admin/users/add
func (h *AdminHandler) UserAdd(c *gin.Context) {
	input := h.bindUserForm(c)

	if _, err := h.services.User.Create(c.Request.Context(), input); err != nil {
		h.renderUserForm(c, "Añadir Usuario", 0, input, err)
		return
	}

	h.flash(c, "success", "Usuario creado con éxito.")
	c.Redirect(http.StatusFound, "/admin/users")
}

// UserEditForm handles GET /admin/users/edit/:id
func (h *AdminHandler) UserEditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	user, err := h.services.User.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderNotFound(c)
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to load user")
		c.String(http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.HTML(http.StatusOK, "admin_user_form.html", pageData(c, h.store, gin.H{
		"Title":  "Editar Usuario",
		"UserID": user.ID,
		"Input": validation.UserInput{
			Username: user.Username,
			IsAdmin:  user.IsAdmin,
		},
	}))
}

// UserEdit handles POST /admin/users/edit/:id
func (h *AdminHandler) UserEdit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	input := h.bindUserForm(c)

	if _, err := h.services.User.Update(c.Request.Context(), id, input); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderNotFound(c)
			return
		}
		h.renderUserForm(c, "Editar Usuario", id, input, err)
		return
	}

	h.flash(c, "success", "Usuario actualizado con éxito.")
	c.Redirect(http.StatusFound, "/admin/users")
}

// UserDelete handles POST /admin/users/delete/:id
func (h *AdminHandler) UserDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.renderNotFound(c)
		return
	}

	err := h.services.User.Delete(c.Request.Context(), currentAdminID(c), id)
	switch {
	case err == nil:
		h.flash(c, "success", "Usuario eliminado correctamente.")
	case errors.Is(err, service.ErrSelfDelete):
		h.flash(c, "danger", "No puedes eliminar tu propia cuenta.")
	case errors.Is(err, service.ErrLastAdmin):
		h.flash(c, "danger", "No se puede eliminar al último administrador.")
	case errors.Is(err, service.ErrNotFound):
		h.renderNotFound(c)
		return
	default:
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to delete user")
		h.flash(c, "danger", "Error al eliminar el usuario.")
	}
	c.Redirect(http.StatusFound, "/admin/users")
}

func (h *AdminHandler) bindUserForm(c *gin.Context) validation.UserInput {
	return validation.UserInput{
		Username:        c.PostForm("username"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirm_password"),
		IsAdmin:         c.PostForm("is_admin") != "",
	}
}

func (h *AdminHandler) renderUserForm(c *gin.Context, title string, userID int64, input validation.UserInput, err error) {
	data := gin.H{
		"Title":  title,
		"UserID": userID,
		"Input":  input,
	}

	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		data["Errors"] = verrs
	case errors.Is(err, service.ErrUsernameTaken):
		data["Errors"] = validation.Errors{{Field: "username", Message: "El nombre de usuario ya existe."}}
	case errors.Is(err, service.ErrLastAdmin):
		data["Errors"] = validation.Errors{{Field: "is_admin", Message: "No se puede quitar el último administrador."}}
	default:
		h.log.Error().Err(err).Msg("Failed to save user")
		data["Errors"] = validation.Errors{{Field: "", Message: "Error al guardar el usuario. Inténtalo de nuevo."}}
	}

	c.HTML(http.StatusBadRequest, "admin_user_form.html", pageData(c, h.store, data))
}

func (h *AdminHandler) flash(c *gin.Context, category, message string) {
	if err := h.store.AddFlash(c.Writer, c.Request, category, message); err != nil {
		h.log.Error().Err(err).Msg("Failed to save flash message")
	}
}

func (h *AdminHandler) renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", pageData(c, h.store, gin.H{
		"Title":   "No encontrado",
		"Message": "El recurso solicitado no existe.",
	}))
}
