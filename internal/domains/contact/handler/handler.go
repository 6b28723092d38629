package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"launchsignal-backend/internal/domains/contact/model"
	"launchsignal-backend/internal/domains/contact/service"
	"launchsignal-backend/internal/shared/response"
)

type ContactHandler struct {
	service service.ServiceInterface
}

func NewContactHandler(service service.ServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// Send handles POST /api/contact
func (h *ContactHandler) Send(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.service.SendContact(c.Request.Context(), req)
	if err != nil {
		var validationErrs validation.Errors
		if errors.As(err, &validationErrs) {
			response.ValidationError(c, validationErrs)
			return
		}
		response.InternalServerError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
