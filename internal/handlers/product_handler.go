package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"go-pos-terminal/internal/database"
	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/models"
	"go-pos-terminal/internal/responses"

	"github.com/gin-gonic/gin"
)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type StockAdjustment struct {
	Delta int `json:"delta" binding:"required"`
}

func validateProduct(in models.ProductInput) error {
	details := map[string]string{}
	if in.Price.IsNegative() {
		details["price"] = "must not be negative"
	}
	if in.CostPrice.IsNegative() {
		details["cost_price"] = "must not be negative"
	}
	if len(details) > 0 {
		return apperrors.New(apperrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

// ListProducts serves the POS screen search: ?q= matches names or barcodes, ?category= filters.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.app.Store.SearchProducts(c.Request.Context(), database.ProductFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Category: c.Query("category"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, products)
}

func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.app.Store.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, categories)
}

func (h *Handler) LowStock(c *gin.Context) {
	products, err := h.app.Store.LowStockProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, products)
}

func (h *Handler) ScanProduct(c *gin.Context) {
	product, ok, err := h.app.Store.FindProductByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		h.fail(c, notFound("product"))
		return
	}
	responses.Success(c, product)
}

func (h *Handler) GetProduct(c *gin.Context) {
	product, ok, err := h.app.Store.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		h.fail(c, notFound("product"))
		return
	}
	responses.Success(c, product)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var input models.ProductInput
	if err := responses.Bind(c, &input); err != nil {
		h.fail(c, err)
		return
	}
	if err := validateProduct(input); err != nil {
		h.fail(c, err)
		return
	}
	product, err := h.app.Store.AddProduct(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.SuccessStatus(c, http.StatusCreated, product)
}

// UpdateProduct replaces every field of the product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, ok, err := h.app.Store.GetProduct(ctx, id); err != nil {
		h.fail(c, err)
		return
	} else if !ok {
		h.fail(c, notFound("product"))
		return
	}

	var input models.ProductInput
	if err := responses.Bind(c, &input); err != nil {
		h.fail(c, err)
		return
	}
	if err := validateProduct(input); err != nil {
		h.fail(c, err)
		return
	}
	product, err := h.app.Store.UpdateProduct(ctx, input.WithID(id))
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	removed, err := h.app.Store.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !removed {
		h.fail(c, notFound("product"))
		return
	}
	responses.Success(c, gin.H{"deleted": true})
}

// AdjustStock applies a signed delta, e.g. a delivery or a write-off.
func (h *Handler) AdjustStock(c *gin.Context) {
	var input StockAdjustment
	if err := responses.Bind(c, &input); err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	ok, err := h.app.Store.AdjustStock(ctx, id, input.Delta)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		h.fail(c, notFound("product"))
		return
	}
	product, _, err := h.app.Store.GetProduct(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, product)
}

// UploadImage stores a product picture under the upload directory and
// returns the URL to put in image_url.
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.fail(c, apperrors.Wrap(apperrors.CodeValidation, err, "no file uploaded"))
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		h.fail(c, apperrors.New(apperrors.CodeValidation, "only image files can be uploaded").
			WithDetails(map[string]any{"extension": ext}))
		return
	}

	filename := fmt.Sprintf("%d_%s", h.now().Unix(), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(h.app.Config.App.UploadDir, filename)); err != nil {
		h.fail(c, apperrors.Wrap(apperrors.CodeInternal, err, "failed to save file"))
		return
	}

	baseURL := strings.TrimSuffix(h.app.Config.App.BaseURL, "/")
	responses.SuccessStatus(c, http.StatusCreated, gin.H{"url": baseURL + "/uploads/" + filename})
}
