package handlers

import (
	"go-pos-terminal/internal/cart"
	"go-pos-terminal/internal/models"
	"go-pos-terminal/internal/responses"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CartView struct {
	Items  []models.CartItem `json:"items"`
	Totals cart.Totals       `json:"totals"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateItemRequest struct {
	// zero removes the line
	Quantity int `json:"quantity" binding:"min=0"`
}

type DiscountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

func (h *Handler) cartView() CartView {
	return CartView{Items: h.app.Cart.Items(), Totals: h.app.Cart.Totals()}
}

func (h *Handler) GetCart(c *gin.Context) {
	responses.Success(c, h.cartView())
}

// AddCartItem looks the product up again so the stock check sees persisted stock.
func (h *Handler) AddCartItem(c *gin.Context) {
	var input AddItemRequest
	if err := responses.Bind(c, &input); err != nil {
		h.fail(c, err)
		return
	}
	product, ok, err := h.app.Store.GetProduct(c.Request.Context(), input.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		h.fail(c, notFound("product"))
		return
	}
	if err := h.app.Cart.Add(product, input.Quantity); err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, h.cartView())
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var input UpdateItemRequest
	if err := responses.Bind(c, &input); err != nil {
		h.fail(c, err)
		return
	}
	if input.Quantity == 0 {
		h.app.Cart.Remove(c.Param("id"))
		responses.Success(c, h.cartView())
		return
	}
	if err := h.app.Cart.UpdateQuantity(c.Param("id"), input.Quantity); err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, h.cartView())
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	h.app.Cart.Remove(c.Param("id"))
	responses.Success(c, h.cartView())
}

func (h *Handler) ClearCart(c *gin.Context) {
	h.app.Cart.Clear()
	responses.Success(c, h.cartView())
}

func (h *Handler) SetDiscount(c *gin.Context) {
	var input DiscountRequest
	if err := responses.Bind(c, &input); err != nil {
		h.fail(c, err)
		return
	}
	h.app.Cart.SetDiscount(input.Discount)
	responses.Success(c, h.cartView())
}
