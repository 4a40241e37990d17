package web

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericfisherdev/simple-catalog/internal/api/middleware"
	"github.com/ericfisherdev/simple-catalog/internal/client"
	"github.com/ericfisherdev/simple-catalog/internal/domain"
	"github.com/ericfisherdev/simple-catalog/internal/services"
)

// Messages shown on the add-item page.
const (
	MessageFillRequiredFields = "Please fill in all required fields."
	MessageEnterValidPrice    = "Please enter a valid price."
	MessageAddItemFailed      = "Failed to add item. Please make sure the API server is running."
)

// addItemForm is the add-item page's form state.
type addItemForm struct {
	Name        string `form:"name"`
	Description string `form:"description"`
	Price       string `form:"price"`
	Image       string `form:"image"`
}

// PageHandler serves the catalog pages and the login flow.
type PageHandler struct {
	catalog  client.CatalogClient
	sessions services.SessionService
	cookies  middleware.SessionCookieConfig
	logger   *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(
	catalog client.CatalogClient,
	sessions services.SessionService,
	cookies middleware.SessionCookieConfig,
	logger *slog.Logger,
) *PageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandler{
		catalog:  catalog,
		sessions: sessions,
		cookies:  cookies,
		logger:   logger,
	}
}

// RegisterRoutes registers page routes.
func (h *PageHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Home)
	router.GET("/items", h.ListItems)
	router.GET("/items/:id", h.ShowItem)
	router.GET("/login", h.LoginForm)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
	router.GET("/add-item", h.AddItemForm)
	router.POST("/add-item", h.AddItem)
	router.GET("/session", h.Session)
}

// page builds template data shared by every page.
func page(c *gin.Context, title string) gin.H {
	data := gin.H{"Title": title, "Email": ""}
	if session, ok := middleware.GetSessionFromContext(c); ok {
		data["Email"] = session.Identity
	}
	return data
}

// Home redirects to the catalog listing.
func (h *PageHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/items")
}

// ListItems renders the catalog. An unreachable API renders an empty listing.
func (h *PageHandler) ListItems(c *gin.Context) {
	items, err := h.catalog.ListItems(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch items",
			"request_id", middleware.GetRequestID(c),
			"error", err,
		)
		items = []domain.Item{}
	}

	data := page(c, "Items")
	data["Items"] = items
	c.HTML(http.StatusOK, itemsPage, data)
}

// ShowItem renders one item. Any failure renders the not-found page.
func (h *PageHandler) ShowItem(c *gin.Context) {
	item, err := h.catalog.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !domain.IsType(err, domain.NotFoundError) {
			h.logger.Error("Failed to fetch item",
				"request_id", middleware.GetRequestID(c),
				"item_id", c.Param("id"),
				"error", err,
			)
		}
		c.HTML(http.StatusNotFound, notFoundPage, page(c, "Not Found"))
		return
	}

	data := page(c, item.Name)
	data["Item"] = item
	c.HTML(http.StatusOK, itemPage, data)
}

// LoginForm renders the login page, or forwards visitors who already hold a session.
func (h *PageHandler) LoginForm(c *gin.Context) {
	redirect := c.Query("redirect")
	if _, ok := middleware.GetSessionFromContext(c); ok {
		c.Redirect(http.StatusSeeOther, h.sessions.SafeRedirect(redirect))
		return
	}

	data := page(c, "Login")
	data["Redirect"] = redirect
	data["FormEmail"] = ""
	data["Error"] = ""
	c.HTML(http.StatusOK, loginPage, data)
}

// Login verifies credentials from a form or JSON body and issues the session cookie.
func (h *PageHandler) Login(c *gin.Context) {
	wantsJSON := c.ContentType() == gin.MIMEJSON

	var req domain.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, wantsJSON, http.StatusBadRequest, "Invalid request format", req)
		return
	}

	token, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if domain.IsType(err, domain.AuthenticationError) {
			h.logger.Info("Login rejected",
				"request_id", middleware.GetRequestID(c),
				"email", req.Email,
			)
			h.loginFailed(c, wantsJSON, http.StatusUnauthorized, domain.MessageInvalidCredentials, req)
			return
		}
		h.logger.Error("Login failed", "request_id", middleware.GetRequestID(c), "error", err)
		h.loginFailed(c, wantsJSON, http.StatusInternalServerError, "Server error", req)
		return
	}

	if err := middleware.SetSessionCookie(c, token, h.cookies); err != nil {
		h.logger.Error("Failed to set session cookie", "request_id", middleware.GetRequestID(c), "error", err)
		h.loginFailed(c, wantsJSON, http.StatusInternalServerError, "Server error", req)
		return
	}

	target := h.sessions.SafeRedirect(req.Redirect)
	if wantsJSON {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    domain.LoginResult{Email: token.Email, Redirect: target},
		})
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *PageHandler) loginFailed(c *gin.Context, wantsJSON bool, status int, message string, req domain.LoginRequest) {
	if wantsJSON {
		c.JSON(status, gin.H{
			"success": false,
			"message": message,
		})
		return
	}

	data := page(c, "Login")
	data["Redirect"] = req.Redirect
	data["FormEmail"] = req.Email
	data["Error"] = message
	c.HTML(status, loginPage, data)
}

// Logout clears the session cookie and returns to the login page.
func (h *PageHandler) Logout(c *gin.Context) {
	if session, ok := middleware.GetSessionFromContext(c); ok {
		h.sessions.Logout(c.Request.Context(), session.Identity)
	}
	middleware.ClearSessionCookie(c, h.cookies)
	c.Redirect(http.StatusSeeOther, h.sessions.LoginURL(""))
}

// AddItemForm renders the add-item page.
func (h *PageHandler) AddItemForm(c *gin.Context) {
	h.renderAddItem(c, http.StatusOK, addItemForm{}, "")
}

// AddItem validates the form and forwards it to the catalog API.
func (h *PageHandler) AddItem(c *gin.Context) {
	var form addItemForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderAddItem(c, http.StatusBadRequest, form, MessageFillRequiredFields)
		return
	}

	name := strings.TrimSpace(form.Name)
	description := strings.TrimSpace(form.Description)
	if name == "" || description == "" || strings.TrimSpace(form.Price) == "" {
		h.renderAddItem(c, http.StatusBadRequest, form, MessageFillRequiredFields)
		return
	}

	price, ok := domain.ParsePriceInput(form.Price)
	if !ok {
		h.renderAddItem(c, http.StatusBadRequest, form, MessageEnterValidPrice)
		return
	}

	item, err := h.catalog.CreateItem(c.Request.Context(), domain.CreateItemRequest{
		Name:        name,
		Description: description,
		Price:       price,
		Image:       strings.TrimSpace(form.Image),
	})
	if err != nil {
		if domainErr, ok := domain.AsError(err); ok && domainErr.Type == domain.ValidationError {
			h.renderAddItem(c, http.StatusBadRequest, form, domainErr.Message)
			return
		}
		h.logger.Error("Failed to add item", "request_id", middleware.GetRequestID(c), "error", err)
		h.renderAddItem(c, http.StatusBadGateway, form, MessageAddItemFailed)
		return
	}

	h.logger.Info("Item added",
		"request_id", middleware.GetRequestID(c),
		"item_id", item.ID,
		"name", item.Name,
	)
	c.Redirect(http.StatusSeeOther, "/items")
}

func (h *PageHandler) renderAddItem(c *gin.Context, status int, form addItemForm, message string) {
	data := page(c, "Add Item")
	data["Form"] = form
	data["Error"] = message
	c.HTML(status, addItemPage, data)
}

// Session reports the caller's session as JSON.
func (h *PageHandler) Session(c *gin.Context) {
	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"authenticated": false},
		})
		return
	}

	data := gin.H{
		"authenticated": true,
		"email":         session.Identity,
	}
	if session.Token != nil {
		data["loginTime"] = session.Token.LoginTime.UTC().Format(time.RFC3339Nano)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
