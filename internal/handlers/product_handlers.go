package handlers

import (
	"strconv"

	"brewtrack/internal/common"
	"brewtrack/internal/models"
	"brewtrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ProductHandlers handles HTTP requests for the catalog
type ProductHandlers struct {
	productService services.ProductServiceInterface
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productService services.ProductServiceInterface) *ProductHandlers {
	return &ProductHandlers{
		productService: productService,
	}
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c, 50)

	products, err := h.productService.ListAvailable(ctx, limit, offset)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, map[string]interface{}{
		"products": products,
		"count":    len(products),
		"limit":    limit,
		"offset":   offset,
	}, "Products retrieved successfully")
}

// SearchProducts handles GET /products/search
func (h *ProductHandlers) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.ProductSearchFilter{
		Query: c.QueryParam("q"),
	}
	filter.Limit, filter.Offset = paginationParams(c, 50)

	if categoryParam := c.QueryParam("category_id"); categoryParam != "" {
		categoryID, err := common.ValidateUUID(categoryParam, "category_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		filter.CategoryID = &categoryID
	}

	if minParam := c.QueryParam("min_price"); minParam != "" {
		minPrice, err := decimal.NewFromString(minParam)
		if err != nil {
			return common.SendClientError(c, "min_price must be a decimal number")
		}
		filter.MinPrice = &minPrice
	}

	if maxParam := c.QueryParam("max_price"); maxParam != "" {
		maxPrice, err := decimal.NewFromString(maxParam)
		if err != nil {
			return common.SendClientError(c, "max_price must be a decimal number")
		}
		filter.MaxPrice = &maxPrice
	}

	if featuredParam := c.QueryParam("featured"); featuredParam != "" {
		featured, err := strconv.ParseBool(featuredParam)
		if err != nil {
			return common.SendClientError(c, "featured must be true or false")
		}
		filter.Featured = featured
	}

	products, err := h.productService.Search(ctx, filter)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, map[string]interface{}{
		"products": products,
		"count":    len(products),
	}, "Products retrieved successfully")
}

// ListCategories handles GET /products/categories
func (h *ProductHandlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.productService.ListCategories(ctx)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, categories, "Categories retrieved successfully")
}

// ListByCategory handles GET /products/category/:category
func (h *ProductHandlers) ListByCategory(c echo.Context) error {
	ctx := c.Request().Context()

	category := c.Param("category")
	if category == "" {
		return common.SendClientError(c, "category is required")
	}

	limit, offset := paginationParams(c, 50)

	products, err := h.productService.ListByCategory(ctx, category, limit, offset)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, map[string]interface{}{
		"products": products,
		"count":    len(products),
	}, "Products retrieved successfully")
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	product, err := h.productService.GetProduct(ctx, id)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, product, "Product retrieved successfully")
}

type productRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category_id"`
	Available   *bool            `json:"available"`
	Featured    *bool            `json:"featured"`
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Price == nil {
		return common.SendClientError(c, "price is required")
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Available:   true,
	}
	if req.Available != nil {
		product.Available = *req.Available
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.CategoryID != nil && common.SafeString(req.CategoryID) != "" {
		categoryID, err := common.ValidateUUID(common.SafeString(req.CategoryID), "category_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		product.CategoryID = &categoryID
	}

	if err := h.productService.CreateProduct(ctx, product); err != nil {
		return common.SendError(c, err)
	}

	return common.SendCreated(c, product, "Product created successfully")
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	existing, err := h.productService.GetProduct(ctx, id)
	if err != nil {
		return common.SendError(c, err)
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.Price != nil {
		existing.Price = *req.Price
	}
	if req.Available != nil {
		existing.Available = *req.Available
	}
	if req.Featured != nil {
		existing.Featured = *req.Featured
	}
	if req.CategoryID != nil {
		if common.SafeString(req.CategoryID) == "" {
			existing.CategoryID = nil
		} else {
			categoryID, err := common.ValidateUUID(common.SafeString(req.CategoryID), "category_id")
			if err != nil {
				return common.SendClientError(c, err.Error())
			}
			existing.CategoryID = &categoryID
		}
	}

	if err := h.productService.UpdateProduct(ctx, existing); err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, existing, "Product updated successfully")
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.productService.DeleteProduct(ctx, id); err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, nil, "Product deleted successfully")
}

// UploadProductImage handles POST /products/:id/image with a multipart form
// carrying an "image" file field.
func (h *ProductHandlers) UploadProductImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendClientError(c, "image file is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.productService.UploadImage(ctx, id, src, fileHeader.Size, contentType); err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, nil, "Product image uploaded successfully")
}

// CreateCategory handles POST /products/categories
func (h *ProductHandlers) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	category, err := h.productService.CreateCategory(ctx, req.Name)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendCreated(c, category, "Category created successfully")
}
