package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go-pos-lite/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// --- GET: List products ---
// ?q= name search, ?category= id or "all", ?inStock=true for the till grid.
func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.Catalog.SearchProducts(c.Query("q"), c.Query("category"), c.Query("inStock") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: Categories ---
// Cashiers see the active tabs, admins see everything with ?all=true.
func (h *Handler) GetCategories(c *gin.Context) {
	var (
		cats []models.Category
		err  error
	)
	if c.Query("all") == "true" && currentCaller(c).Role == models.RoleAdmin {
		cats, err = h.Catalog.Categories()
	} else {
		cats, err = h.Catalog.ActiveCategories()
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// ProductInput is the create/edit form.
type ProductInput struct {
	Name       string          `json:"name" binding:"required"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID string          `json:"categoryId" binding:"required"`
	Image      string          `json:"image"`
}

// --- POST: Add a new product ---
func (h *Handler) AddProduct(c *gin.Context) {
	var input ProductInput

	// 1. Parse JSON Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// 2. Save (validates price, stock and category)
	product, err := h.Catalog.UpsertProduct(models.Product{
		Name:       input.Name,
		Price:      input.Price,
		Stock:      input.Stock,
		CategoryID: input.CategoryID,
		Image:      input.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// --- PUT: Edit a product ---
func (h *Handler) UpdateProduct(c *gin.Context) {
	// 1. Find existing product
	product, err := h.Catalog.Product(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	// 2. Parse the full form
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// 3. Save updates, createdAt is kept by the catalog
	product.Name = input.Name
	product.Price = input.Price
	product.Stock = input.Stock
	product.CategoryID = input.CategoryID
	product.Image = input.Image
	product, err = h.Catalog.UpsertProduct(product)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// --- DELETE: Remove a product ---
// Past sales keep their own copy of the product.
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.Catalog.DeleteProduct(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

type CategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

func (h *Handler) AddCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	active := input.IsActive == nil || *input.IsActive

	cat, err := h.Catalog.UpsertCategory(models.Category{Name: input.Name, Description: input.Description, IsActive: active})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	cat, err := h.Catalog.Category(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	cat.Name = input.Name
	cat.Description = input.Description
	if input.IsActive != nil {
		cat.IsActive = *input.IsActive
	}
	if cat, err = h.Catalog.UpsertCategory(cat); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// --- DELETE: Remove a category ---
// Refused while products still use it, and always for Uncategorized.
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.Catalog.DeleteCategory(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

var imageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// --- UPLOAD: Handle Image Files ---
func (h *Handler) UploadImage(c *gin.Context) {
	// 1. Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// 2. Only allow images
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExt[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
		return
	}

	// 3. Generate a safe unique filename
	// e.g., "167890123_burger.jpg"
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(file.Filename))

	// 4. Save the file to the uploads folder
	if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, filename)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     strings.TrimRight(h.BaseURL, "/") + "/uploads/" + filename,
	})
}
