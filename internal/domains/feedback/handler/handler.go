package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"launchsignal-backend/internal/domains/feedback/model"
	"launchsignal-backend/internal/domains/feedback/service"
	"launchsignal-backend/internal/shared/middleware"
	"launchsignal-backend/internal/shared/response"
)

type FeedbackHandler struct {
	service service.ServiceInterface
}

func NewFeedbackHandler(service service.ServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// Submit handles POST /api/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	var req model.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	feedback, err := h.service.Submit(c.Request.Context(), identity.UserID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, feedback)
}

// ListForStartup handles GET /api/startups/:id/feedback
func (h *FeedbackHandler) ListForStartup(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	startupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid startup ID")
		return
	}

	result, err := h.service.ListForStartup(c.Request.Context(), startupID, identity.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ValidationError(c, validationErrs)
		return
	}

	var feedbackErr *model.FeedbackError
	if !errors.As(err, &feedbackErr) {
		response.InternalServerError(c, err)
		return
	}

	switch feedbackErr.Code {
	case model.ErrCodeStartupNotFound:
		response.NotFound(c, feedbackErr.Message)
	case model.ErrCodeForbidden:
		response.Forbidden(c, feedbackErr.Message)
	default:
		response.InternalServerError(c, err)
	}
}
