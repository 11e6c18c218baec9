package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"booktracker/internal/microservices/http-api/dto"
	"booktracker/internal/microservices/http-api/middleware"
	"booktracker/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

var errInvalidID = errors.New("invalid book id")

type BookHandler struct {
	svc    service.BookService
	logger *slog.Logger
}

func NewBookHandler(svc service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{svc: svc, logger: logger}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List returns all books matching the optional filters, newest first.
// GET /api/books?status=&author=&search=
func (h *BookHandler) List(c *gin.Context) {
	filters := dto.BookFilters{
		Status: c.Query("status"),
		Author: c.Query("author"),
		Search: c.Query("search"),
	}

	list, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		h.serverError(c, "Failed to fetch books", err)
		return
	}
	respondData(c, http.StatusOK, dto.FromModels(list))
}

// Get returns one book.
// GET /api/books/:id
func (h *BookHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid book ID")
		return
	}

	b, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			respondError(c, http.StatusNotFound, "Book not found")
			return
		}
		h.serverError(c, "Failed to fetch book", err)
		return
	}
	respondData(c, http.StatusOK, dto.FromModel(*b))
}

// Create validates the body and stores a new book.
// POST /api/books
func (h *BookHandler) Create(c *gin.Context) {
	in, ok := h.bindBookInput(c)
	if !ok {
		return
	}

	b, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.serverError(c, "Failed to create book", err)
		return
	}
	respondData(c, http.StatusCreated, dto.FromModel(*b))
}

// Update replaces all mutable fields of a book.
// PUT /api/books/:id
func (h *BookHandler) Update(c *gin.Context) {
	// the id is checked before the body so a bad id never reaches validation
	id, err := parseID(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid book ID")
		return
	}

	in, ok := h.bindBookInput(c)
	if !ok {
		return
	}

	b, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			respondError(c, http.StatusNotFound, "Book not found")
			return
		}
		h.serverError(c, "Failed to update book", err)
		return
	}
	respondData(c, http.StatusOK, dto.FromModel(*b))
}

// Delete removes a book.
// DELETE /api/books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid book ID")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			respondError(c, http.StatusNotFound, "Book not found")
			return
		}
		h.serverError(c, "Failed to delete book", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindBookInput reads and validates the request body. On failure it has
// already written the 400 response.
func (h *BookHandler) bindBookInput(c *gin.Context) (dto.BookInput, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON body")
		return dto.BookInput{}, false
	}

	in, err := dto.DecodeBookInput(body)
	if err != nil {
		var fields dto.FieldErrors
		if errors.As(err, &fields) {
			respondValidation(c, fields)
		} else {
			respondError(c, http.StatusBadRequest, "Invalid JSON body")
		}
		return dto.BookInput{}, false
	}
	return in, true
}

// serverError logs the cause and sends a generic message.
func (h *BookHandler) serverError(c *gin.Context, message string, err error) {
	h.logger.Error(message,
		"error", err.Error(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(middleware.RequestIDKey),
	)
	respondError(c, http.StatusInternalServerError, message)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return id, nil
}
