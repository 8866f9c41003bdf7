package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/equilibrio-api/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/equilibrio-api/internal/core/domain"
	"github.com/comitanigiacomo/equilibrio-api/internal/core/services"
)

type EntryHandler struct {
	svc    *services.SubmissionService
	logger logrus.FieldLogger
}

func NewEntryHandler(svc *services.SubmissionService, logger logrus.FieldLogger) *EntryHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EntryHandler{
		svc:    svc,
		logger: logger.WithField("component", "entry_handler"),
	}
}

type successResponse struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type failureResponse struct {
	Status  string              `json:"status" example:"failed"`
	Message string              `json:"message"`
	Errors  []string            `json:"errors,omitempty"`
	Details []domain.FieldError `json:"details,omitempty"`
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/entries")
	{
		entries.POST("", h.Submit)
		entries.GET("", h.Query)
		entries.GET("/:date", h.GetByDate)
	}
}

// Submit godoc
// @Summary      Submit a daily entry
// @Description  Creates or replaces the caller's entry for a day and returns it with the recomputed streak.
// @Tags         entries
// @Accept       json
// @Produce      json
// @Param        entry  body      domain.Submission  true  "Daily entry"
// @Success      200    {object}  successResponse{data=domain.DailyEntry}
// @Failure      400    {object}  failureResponse
// @Failure      401    {object}  failureResponse
// @Failure      500    {object}  failureResponse
// @Security     BearerAuth
// @Router       /entries [post]
func (h *EntryHandler) Submit(c *gin.Context) {
	var sub domain.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, failureResponse{
			Status:  "failed",
			Message: "invalid request body",
			Errors:  []string{err.Error()},
		})
		return
	}

	if userID, ok := middleware.GetUserID(c); ok {
		sub.User, _ = json.Marshal(userID)
	}

	entry, err := h.svc.Submit(c.Request.Context(), sub)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{
		Status:  "success",
		Message: "daily entry saved",
		Data:    entry,
	})
}

// Query godoc
// @Summary      List daily entries
// @Description  Returns the user's entries between two calendar days, both inclusive, oldest first.
// @Tags         entries
// @Produce      json
// @Param        startDate  query     string  true   "First day (YYYY-MM-DD)"
// @Param        endDate    query     string  true   "Last day (YYYY-MM-DD)"
// @Param        user       query     string  false  "User id when no bearer token is sent"
// @Success      200        {object}  successResponse{data=[]domain.DailyEntry}
// @Failure      400        {object}  failureResponse
// @Failure      500        {object}  failureResponse
// @Security     BearerAuth
// @Router       /entries [get]
func (h *EntryHandler) Query(c *gin.Context) {
	entries, err := h.svc.Query(c.Request.Context(), services.QueryInput{
		UserID:    requestUser(c),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{Status: "success", Data: entries})
}

// GetByDate godoc
// @Summary      Get one day's entry
// @Tags         entries
// @Produce      json
// @Param        date  path      string  true   "Day (YYYY-MM-DD)"
// @Param        user  query     string  false  "User id when no bearer token is sent"
// @Success      200   {object}  successResponse{data=domain.DailyEntry}
// @Failure      400   {object}  failureResponse
// @Failure      404   {object}  failureResponse
// @Failure      500   {object}  failureResponse
// @Security     BearerAuth
// @Router       /entries/{date} [get]
func (h *EntryHandler) GetByDate(c *gin.Context) {
	entry, err := h.svc.GetByDate(c.Request.Context(), requestUser(c), c.Param("date"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{Status: "success", Data: entry})
}

func requestUser(c *gin.Context) string {
	if userID, ok := middleware.GetUserID(c); ok {
		return userID
	}
	return c.Query("user")
}

func (h *EntryHandler) handleError(c *gin.Context, err error) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, failureResponse{
			Status:  "failed",
			Message: "validation failed",
			Errors:  verr.Messages(),
			Details: verr.Errors,
		})

	case errors.Is(err, domain.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, failureResponse{Status: "failed", Message: "daily entry not found"})

	default:
		_ = c.Error(err)
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, failureResponse{Status: "failed", Message: "internal server error"})
	}
}
