package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/service"
	"github.com/raditya/storefront-api/internal/storage"
)

type ProductHandler struct {
	catalogService *service.CatalogService
	images         storage.ImageStore
}

func NewProductHandler(catalogService *service.CatalogService, images storage.ImageStore) *ProductHandler {
	return &ProductHandler{catalogService: catalogService, images: images}
}

// Create accepts either a JSON body or a multipart form with an optional
// "image" file part.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	var imageURL *string

	if isMultipart(c) {
		parsed, url, ok := h.parseProductForm(c, true)
		if !ok {
			return
		}
		req = dto.CreateProductRequest{
			Name:        *parsed.Name,
			Description: valueOr(parsed.Description, ""),
			Price:       *parsed.Price,
			CategoryID:  parsed.CategoryID,
		}
		imageURL = url
	} else if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), req, imageURL)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	if v, ok := c.GetQuery("category_id"); ok && v != "" {
		categoryID, err := uuid.Parse(v)
		if err != nil {
			respondError(c, http.StatusUnprocessableEntity, "category_id must be a valid UUID")
			return
		}
		req.CategoryID = &categoryID
	}

	page, err := h.catalogService.ListProducts(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Products retrieved successfully", page)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	var imageURL *string

	if isMultipart(c) {
		parsed, url, parseOK := h.parseProductForm(c, false)
		if !parseOK {
			return
		}
		req = dto.UpdateProductRequest(parsed)
		imageURL = url
	} else if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, req, imageURL)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Product deleted successfully", nil)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// parsedProductForm holds multipart fields; every field is optional so the
// same parser serves create (required enforced by the caller) and update.
type parsedProductForm struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *uuid.UUID
}

func (h *ProductHandler) parseProductForm(c *gin.Context, requireAll bool) (parsedProductForm, *string, bool) {
	var parsed parsedProductForm
	fields := make(map[string]string)

	if v, ok := c.GetPostForm("name"); ok {
		parsed.Name = &v
	} else if requireAll {
		fields["name"] = "This field is required"
	}
	if v, ok := c.GetPostForm("description"); ok {
		parsed.Description = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := decimal.NewFromString(v)
		if err != nil {
			fields["price"] = "Must be a valid decimal number"
		} else {
			parsed.Price = &price
		}
	} else if requireAll {
		fields["price"] = "This field is required"
	}
	if v, ok := c.GetPostForm("category_id"); ok && v != "" {
		categoryID, err := uuid.Parse(v)
		if err != nil {
			fields["category_id"] = "Must be a valid UUID"
		} else {
			parsed.CategoryID = &categoryID
		}
	}

	if len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationEnvelope{
			Code:    http.StatusUnprocessableEntity,
			Status:  "error",
			Message: "Validation failed",
			Errors:  fields,
		})
		return parsed, nil, false
	}

	imageURL, ok := h.saveImage(c)
	if !ok {
		return parsed, nil, false
	}
	return parsed, imageURL, true
}

// saveImage stores the optional "image" part and returns its public URL.
func (h *ProductHandler) saveImage(c *gin.Context) (*string, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, true
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to read uploaded image")
		return nil, false
	}
	defer src.Close()

	url, err := h.images.Save(c.Request.Context(), file.Filename, src)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to store uploaded image")
		return nil, false
	}
	return &url, true
}

func valueOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
