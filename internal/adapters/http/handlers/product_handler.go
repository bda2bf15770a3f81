package handlers

import (
	"errors"
	"strconv"

	"github.com/s-puig/ecommerce-demo/internal/core/domain"
	"github.com/s-puig/ecommerce-demo/internal/core/services"
	"github.com/s-puig/ecommerce-demo/internal/pkg/identity"
	"github.com/s-puig/ecommerce-demo/internal/pkg/pagination"
	"github.com/s-puig/ecommerce-demo/internal/pkg/response"
	"github.com/s-puig/ecommerce-demo/internal/pkg/visibility"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// flagsFrom derives the visibility flag set for the request. Administrators
// may widen the lookup to everything with ?include=all; everyone else gets
// the default filter.
func flagsFrom(c *fiber.Ctx) visibility.FlagSet {
	if c.Query("include") == "all" {
		if id, ok := identity.FromContext(c); ok && id.IsAdministrator() {
			return visibility.NewFlagSet()
		}
	}
	return visibility.DefaultFlags()
}

// Get handles getting a product by ID
// @Summary Get a product by id
// @Description Get a product. Administrators may pass include=all to see inactive and deleted products.
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Param include query string false "Set to 'all' to disable visibility filtering (admin only)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "Invalid product ID")
	}

	product, err := h.productService.FindByIDWith(c.Context(), uint(id), flagsFrom(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to get product")
	}

	return response.Success(c, "Product retrieved", product.ToResponse())
}

// List handles listing products
// @Summary List products
// @Description Get a paginated list of products
// @Tags Products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param include query string false "Set to 'all' to disable visibility filtering (admin only)"
// @Success 200 {object} response.Response
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	products, total, err := h.productService.List(c.Context(), flagsFrom(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list products")
	}

	items := make([]interface{}, len(products))
	for i, p := range products {
		items[i] = p.ToResponse()
	}

	return response.Success(c, "Products retrieved", pagination.NewResponse(items, params, total))
}

// ListByOwner handles listing the products of one user
// @Summary List products by owner
// @Description Get every product owned by a user
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Owner user ID"
// @Param include query string false "Set to 'all' to disable visibility filtering (admin only)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/{id}/products [get]
func (h *ProductHandler) ListByOwner(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	products, err := h.productService.ListByOwner(c.Context(), uint(id), flagsFrom(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to list products")
	}

	items := make([]interface{}, len(products))
	for i, p := range products {
		items[i] = p.ToResponse()
	}

	return response.Success(c, "Products retrieved", fiber.Map{
		"products": items,
	})
}

// Create handles product creation
// @Summary Create a product
// @Description Create a product owned by an existing user
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProductInput true "Product data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Non-administrators may only create products they own
	if id, ok := identity.FromContext(c); ok && !id.IsAdministrator() {
		input.OwnerID = id.UserID
	}

	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, validationMessage(err))
	}

	product, err := h.productService.Create(c.Context(), &input)
	if err != nil {
		if errors.Is(err, domain.ErrOwnerNotFound) {
			return response.BadRequest(c, "Owner cannot be found")
		}
		return response.InternalServerError(c, "Failed to create product")
	}

	c.Location("/api/v1/products/" + strconv.FormatUint(uint64(product.ID), 10))
	return response.Created(c, "Product created", product.ToResponse())
}

// Update handles partial product update
// @Summary Update a product by id
// @Description Apply a partial update. Returns 409 when the record was modified concurrently; retry after re-reading.
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param body body services.UpdateProductInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "Invalid product ID")
	}

	var input services.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, validationMessage(err))
	}

	product, err := h.productService.UpdateByIDWith(c.Context(), uint(id), &input, flagsFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Product not found")
		case errors.Is(err, domain.ErrConcurrentModification):
			return response.Conflict(c, "Product was modified concurrently, please retry")
		default:
			return response.InternalServerError(c, "Failed to update product")
		}
	}

	return response.Success(c, "Product updated", product.ToResponse())
}

// Delete handles product soft deletion
// @Summary Soft-delete a product by id
// @Description Mark a product as deleted. Deleting twice yields 404.
// @Tags Products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Response
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "Invalid product ID")
	}

	if err := h.productService.DeleteByID(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Product not found")
		case errors.Is(err, domain.ErrConcurrentModification):
			return response.Conflict(c, "Product was modified concurrently, please retry")
		default:
			return response.InternalServerError(c, "Failed to delete product")
		}
	}

	return response.NoContent(c)
}
