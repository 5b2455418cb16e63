package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/order-tracker/internal/validation"
)

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {object} ListResponse{data=[]models.Product}
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func (h *Handler) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}
	h.list(w, r, products, len(products))
}

// GetLowStockProductsHandler godoc
// @Summary List products below their minimum stock
// @Tags products
// @Produce json
// @Success 200 {object} ListResponse{data=[]models.Product}
// @Failure 500 {object} ErrorResponse
// @Router /products/low-stock [get]
func (h *Handler) GetLowStockProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.LowStock(r.Context())
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}
	h.list(w, r, products, len(products))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} SuccessResponse{data=models.Product}
// @Failure 400 {object} ErrorResponse "Invalid product ID"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [get]
func (h *Handler) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", validation.ErrInvalidProductID)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}
	h.ok(w, r, http.StatusOK, product)
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog. minStock defaults to 0.
// @Tags products
// @Accept json
// @Produce json
// @Param product body validation.ProductPayload true "Product to add"
// @Success 201 {object} SuccessResponse{data=models.Product}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req validation.ProductPayload
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}

	created, err := h.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	h.ok(w, r, http.StatusCreated, created)
}

// UpdateProductHandler godoc
// @Summary Replace a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body validation.ProductPayload true "New product values"
// @Success 200 {object} SuccessResponse{data=models.Product}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Product not found"
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [put]
func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", validation.ErrInvalidProductID)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	var req validation.ProductPayload
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	updated, err := h.catalog.UpdateProduct(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}
	h.ok(w, r, http.StatusOK, updated)
}

// AdjustQuantityHandler godoc
// @Summary Adjust the stock of a product
// @Description Positive delta restocks, negative delta writes off.
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param adjustment body validation.AdjustmentPayload true "Stock change"
// @Success 200 {object} SuccessResponse{data=models.Product}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Product not found"
// @Failure 409 {object} ErrorResponse "Stock cannot be negative"
// @Failure 500 {object} ErrorResponse
// @Router /products/{id}/adjust [post]
func (h *Handler) AdjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", validation.ErrInvalidProductID)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	var req validation.AdjustmentPayload
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}

	product, err := h.catalog.AdjustStock(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err, http.StatusNotFound)
		return
	}
	h.ok(w, r, http.StatusOK, product)
}
