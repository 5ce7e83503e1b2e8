package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/raditya/storefront-api/internal/dto"
	"github.com/raditya/storefront-api/internal/service"
)

func respond(c *gin.Context, code int, message string, data any) {
	c.JSON(code, dto.Envelope{Code: code, Status: "success", Message: message, Data: data})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, dto.Envelope{Code: code, Status: "error", Message: message})
}

// bindError turns a gin binding failure into a 422 with a field -> message map.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = validationMessage(fe)
	}
	c.JSON(http.StatusUnprocessableEntity, dto.ValidationEnvelope{
		Code:    http.StatusUnprocessableEntity,
		Status:  "error",
		Message: "Validation failed",
		Errors:  fields,
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}

// handleServiceError maps service sentinels onto HTTP status codes. Anything
// unmatched is a 500 with the underlying message.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrCartLineNotFound),
		errors.Is(err, service.ErrGuestMessageNotFound),
		errors.Is(err, service.ErrNoDefaultAddress),
		errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProductInUse),
		errors.Is(err, service.ErrCategoryInUse),
		errors.Is(err, service.ErrOrderNotDeletable),
		errors.Is(err, service.ErrAddressInUse),
		errors.Is(err, service.ErrUserAlreadyExists):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrOrderAccessDenied),
		errors.Is(err, service.ErrAddressAccessDenied):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrNegativePrice),
		errors.Is(err, service.ErrNoValidCartItems):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

// pathID parses the :id route parameter; responds 404 on garbage so invalid
// and unknown ids look the same to clients.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "resource not found")
		return uuid.Nil, false
	}
	return id, true
}
