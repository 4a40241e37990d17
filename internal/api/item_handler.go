package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/simple-catalog/internal/domain"
	"github.com/ericfisherdev/simple-catalog/internal/services"
)

// MessageItemCreated is returned with 201 responses from POST /items.
const MessageItemCreated = "Item created successfully"

// MaxItemBodyBytes caps the size of a POST /items body.
const MaxItemBodyBytes = 1 << 20

// ItemHandler handles catalog item endpoints.
type ItemHandler struct {
	catalog   services.CatalogService
	sanitizer *ErrorSanitizer
}

// NewItemHandler creates a new item handler.
func NewItemHandler(catalog services.CatalogService, sanitizer *ErrorSanitizer) *ItemHandler {
	return &ItemHandler{
		catalog:   catalog,
		sanitizer: sanitizer,
	}
}

// RegisterRoutes registers item routes.
func (h *ItemHandler) RegisterRoutes(router gin.IRouter) {
	items := router.Group("/items")
	{
		items.GET("", h.ListItems)
		items.GET("/:id", h.GetItem)
		items.POST("", h.CreateItem)
	}
}

// ListItems handles GET /items.
func (h *ItemHandler) ListItems(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.sanitizer.SanitizedErrorResponse(c, err)
		return
	}

	ListResponse(c, items)
}

// GetItem handles GET /items/:id.
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.catalog.GetByRawID(c.Request.Context(), c.Param("id"))
	if err != nil {
		// A non-integer id cannot name an item; both cases read as not found.
		if domain.IsType(err, domain.NotFoundError) || domain.IsType(err, domain.InvalidArgumentError) {
			FailureResponse(c, http.StatusNotFound, domain.MessageItemNotFound)
			return
		}
		h.sanitizer.SanitizedErrorResponse(c, err)
		return
	}

	SuccessResponse(c, item)
}

// createItemBody keeps price raw so that non-numeric values reach validation.
type createItemBody struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       json.RawMessage `json:"price"`
	Image       string          `json:"image"`
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxItemBodyBytes)
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			FailureResponse(c, http.StatusRequestEntityTooLarge, MessageBodyTooLarge)
			return
		}
		FailureResponse(c, http.StatusBadRequest, MessageInvalidRequestBody)
		return
	}

	var body createItemBody
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			FailureResponse(c, http.StatusBadRequest, MessageInvalidRequestBody)
			return
		}
	}

	req := domain.CreateItemRequest{
		Name:        body.Name,
		Description: body.Description,
		Image:       body.Image,
	}
	if len(body.Price) > 0 {
		req.Price = body.Price
	}

	item, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		h.sanitizer.SanitizedErrorResponse(c, err)
		return
	}

	CreatedResponse(c, MessageItemCreated, item)
}
