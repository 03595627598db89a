package files

import (
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/filedepot-io/filedepot/internal/apperror"
	"github.com/filedepot-io/filedepot/internal/auth"
)

// Handler handles HTTP requests for file and folder entries. All routes run
// behind the session middleware, so the caller's user id is always present
// in the request context.
type Handler struct {
	service FileService
}

// NewHandler creates a new files handler with the given service.
func NewHandler(service FileService) *Handler {
	return &Handler{service: service}
}

// Create stores a new entry (POST /files).
func (h *Handler) Create(c echo.Context) error {
	var req CreateFileRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Missing name")
	}

	file, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), CreateInput{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, file.View())
}

// Get returns a single owned entry (GET /files/:id).
func (h *Handler) Get(c echo.Context) error {
	file, err := h.service.Get(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, file.View())
}

// Data serves an entry's raw content (GET /files/:id/data). Public entries
// need no token; private entries require the owner's.
func (h *Handler) Data(c echo.Context) error {
	file, data, err := h.service.GetData(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(file.Name))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Blob(http.StatusOK, contentType, data)
}

// List returns one page of owned entries (GET /files?parentId=&page=).
func (h *Handler) List(c echo.Context) error {
	parentID := c.QueryParam("parentId")

	// A missing or malformed page means the first page.
	page, err := strconv.ParseInt(c.QueryParam("page"), 10, 64)
	if err != nil {
		page = 0
	}

	results, err := h.service.List(c.Request().Context(), auth.GetUserID(c), parentID, page)
	if err != nil {
		return err
	}

	views := make([]FileView, 0, len(results))
	for i := range results {
		views = append(views, results[i].View())
	}
	return c.JSON(http.StatusOK, views)
}

// Publish marks an owned entry public (PUT /files/:id/publish).
func (h *Handler) Publish(c echo.Context) error {
	return h.setVisibility(c, true)
}

// Unpublish marks an owned entry private (PUT /files/:id/unpublish).
func (h *Handler) Unpublish(c echo.Context) error {
	return h.setVisibility(c, false)
}

func (h *Handler) setVisibility(c echo.Context, isPublic bool) error {
	file, err := h.service.SetVisibility(c.Request().Context(), auth.GetUserID(c), c.Param("id"), isPublic)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, file.View())
}
