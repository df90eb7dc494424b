package handlers

import (
	"errors"
	"net/http"
	"time"

	"go-pos-lite/internal/ai"
	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/auth"
	"go-pos-lite/internal/cart"
	"go-pos-lite/internal/catalog"
	"go-pos-lite/internal/ledger"
	"go-pos-lite/internal/middleware"
	"go-pos-lite/internal/models"
	"go-pos-lite/internal/reports"
	"go-pos-lite/internal/users"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the POS API. Every field except Agent is required.
type Handler struct {
	Catalog *catalog.Catalog
	Users   *users.Directory
	Ledger  *ledger.Ledger
	Carts   *cart.Registry
	Issuer  *auth.Issuer
	Agent   *ai.Agent

	Location          *time.Location
	LowStockThreshold int
	UploadDir         string
	BaseURL           string
	StorageDriver     string
	Now               func() time.Time
}

func (h *Handler) now() time.Time {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	if h.Location != nil {
		return now().In(h.Location)
	}
	return now()
}

// Register wires every route on r.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.POST("/login", h.Login)
	if h.UploadDir != "" {
		r.Static("/uploads", h.UploadDir)
	}

	// --- SIGNED-IN ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(h.Issuer))
	{
		api.POST("/logout", h.Logout)
		api.GET("/me", h.Me)

		api.GET("/products", h.GetProducts)
		api.GET("/categories", h.GetCategories)

		api.GET("/cart", h.GetCart)
		api.DELETE("/cart", h.ClearCart)
		api.POST("/cart/items", h.AddToCart)
		api.PATCH("/cart/items/:id", h.AdjustCartItem)
		api.DELETE("/cart/items/:id", h.RemoveCartItem)

		api.POST("/checkout", h.ProcessSale)
		api.GET("/checkout/qr", h.CheckoutQR)
		api.GET("/sales/mine", h.MySales)
		api.GET("/sales/:id", h.GetSale)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/ask", h.AskAI)
			admin.POST("/upload", h.UploadImage)

			admin.POST("/categories", h.AddCategory)
			admin.PUT("/categories/:id", h.UpdateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.POST("/products", h.AddProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.GET("/cashiers", h.ListCashiers)
			admin.POST("/cashiers", h.CreateCashier)
			admin.PUT("/cashiers/:id", h.UpdateCashier)

			admin.GET("/reports/dashboard", h.GetDashboard)
			admin.GET("/reports/weekly", h.GetWeeklySales)
			admin.GET("/reports/payments", h.GetPaymentSplit)
			admin.GET("/reports/top-products", h.GetTopProducts)
			admin.GET("/reports/categories", h.GetCategorySales)
			admin.GET("/reports/low-stock", h.GetLowStock)
			admin.GET("/reports/valuation", h.GetStockValuation)
			admin.GET("/reports/sales", h.GetSalesReport)
			admin.GET("/reports/export", h.ExportSales)
		}
	}
}

// respondError maps a domain error onto its status code.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	body := gin.H{"error": err.Error()}

	var sle *apperr.StockLimitError
	if errors.As(err, &sle) {
		body["productId"] = sle.ProductID
		body["available"] = sle.Available
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		body["error"] = "internal error"
	}
	c.AbortWithStatusJSON(status, body)
}

// caller is the signed-in user as carried by the token.
type caller struct {
	ID   string
	Name string
	Role models.Role
}

func currentCaller(c *gin.Context) caller {
	role, _ := c.Get(middleware.KeyRole)
	r, _ := role.(models.Role)
	return caller{ID: c.GetString(middleware.KeyUserID), Name: c.GetString(middleware.KeyUserName), Role: r}
}

// snapshot loads everything the report functions read.
func (h *Handler) snapshot() (reports.Snapshot, error) {
	var (
		s   reports.Snapshot
		err error
	)
	if s.Sales, err = h.Ledger.ListAll(); err != nil {
		return s, err
	}
	if s.Products, err = h.Catalog.Products(); err != nil {
		return s, err
	}
	if s.Categories, err = h.Catalog.Categories(); err != nil {
		return s, err
	}
	if s.Users, err = h.Users.List(); err != nil {
		return s, err
	}
	return s, nil
}
