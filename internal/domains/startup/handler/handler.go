package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"launchsignal-backend/internal/domains/startup/model"
	"launchsignal-backend/internal/domains/startup/service"
	"launchsignal-backend/internal/shared/middleware"
	"launchsignal-backend/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StartupHandler struct {
	service service.ServiceInterface
}

func NewStartupHandler(service service.ServiceInterface) *StartupHandler {
	return &StartupHandler{service: service}
}

// callerID returns the authenticated user; guards run before every handler
// that needs it.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		return uuid.Nil, false
	}
	return identity.UserID, true
}

func startupID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid startup ID")
		return uuid.Nil, false
	}
	return id, true
}

// =====================================================
// LISTINGS
// =====================================================

// Create handles POST /api/startups
func (h *StartupHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req model.StartupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	startup, err := h.service.CreateStartup(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, startup)
}

// Update handles PUT /api/startups/:id
func (h *StartupHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := startupID(c)
	if !ok {
		return
	}

	var req model.StartupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	startup, err := h.service.UpdateStartup(c.Request.Context(), id, userID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, startup)
}

// Get handles GET /api/startups/:id. Only approved startups are visible.
func (h *StartupHandler) Get(c *gin.Context) {
	id, ok := startupID(c)
	if !ok {
		return
	}

	listing, err := h.service.GetStartup(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, listing)
}

func (h *StartupHandler) MyStartups(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	result, err := h.service.GetMyStartups(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// =====================================================
// DISCOVERY
// =====================================================

// Feed handles GET /api/startups, personalized when a session is attached.
func (h *StartupHandler) Feed(c *gin.Context) {
	var caller *uuid.UUID
	if identity, ok := middleware.CurrentIdentity(c); ok {
		caller = &identity.UserID
	}
	response.Success(c, http.StatusOK, h.service.GetFeed(c.Request.Context(), caller))
}

// Trending handles GET /api/startups/trending?window=week|all
func (h *StartupHandler) Trending(c *gin.Context) {
	window := model.ParseTrendingWindow(c.Query("window"))

	result, err := h.service.GetTrending(c.Request.Context(), window)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *StartupHandler) FilterOptions(c *gin.Context) {
	opts, err := h.service.GetFilterOptions(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, opts)
}

// IncrementView handles POST /api/startups/:id/view
func (h *StartupHandler) IncrementView(c *gin.Context) {
	id, ok := startupID(c)
	if !ok {
		return
	}

	result, err := h.service.IncrementView(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// =====================================================
// UPVOTES
// =====================================================

func (h *StartupHandler) Upvote(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := startupID(c)
	if !ok {
		return
	}

	if err := h.service.Upvote(c.Request.Context(), id, userID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"startup_id": id, "upvoted": true})
}

func (h *StartupHandler) RemoveUpvote(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := startupID(c)
	if !ok {
		return
	}

	if err := h.service.RemoveUpvote(c.Request.Context(), id, userID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"startup_id": id, "upvoted": false})
}

func (h *StartupHandler) MyUpvotes(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	result, err := h.service.GetMyUpvotes(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// =====================================================
// ANALYTICS
// =====================================================

func (h *StartupHandler) FounderAnalytics(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	result, err := h.service.GetFounderAnalytics(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// StartupAnalytics handles GET /api/startups/:id/analytics for the owner.
func (h *StartupHandler) StartupAnalytics(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := startupID(c)
	if !ok {
		return
	}

	result, err := h.service.GetStartupAnalytics(c.Request.Context(), id, userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// =====================================================
// MODERATION
// =====================================================

// SetStatus handles PATCH /api/startups/:id/status
func (h *StartupHandler) SetStatus(c *gin.Context) {
	id, ok := startupID(c)
	if !ok {
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	startup, err := h.service.SetStatus(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, startup)
}

// AdminList handles GET /api/startups/admin/list?status=&q=
func (h *StartupHandler) AdminList(c *gin.Context) {
	var query model.AdminListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.ListAdmin(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *StartupHandler) AdminCounts(c *gin.Context) {
	counts, err := h.service.GetAdminCounts(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, counts)
}

// AdminExport handles GET /api/startups/admin/export?status=&q=
func (h *StartupHandler) AdminExport(c *gin.Context) {
	var query model.AdminListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	data, err := h.service.ExportAdmin(c.Request.Context(), query)
	if err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("startups_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// =====================================================
// HELPERS
// =====================================================

func handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.ValidationError(c, validationErrs)
		return
	}

	var startupErr *model.StartupError
	if !errors.As(err, &startupErr) {
		response.InternalServerError(c, err)
		return
	}

	status, code := mapStartupError(startupErr)
	if status == http.StatusInternalServerError {
		response.InternalServerError(c, err)
		return
	}
	response.ErrorResponse(c, status, code, startupErr.Message)
}

// mapStartupError maps a startup error to an HTTP status and response code.
func mapStartupError(err *model.StartupError) (int, string) {
	switch err.Code {
	case model.ErrCodeNotFound:
		return http.StatusNotFound, response.CodeNotFound
	case model.ErrCodeForbidden, model.ErrCodeNotAvailable:
		return http.StatusForbidden, response.CodeForbidden
	case model.ErrCodeInvalidStatus, model.ErrCodeMediaTooLarge, model.ErrCodeInvalidMedia:
		return http.StatusBadRequest, err.Code
	default:
		return http.StatusInternalServerError, response.CodeInternal
	}
}
