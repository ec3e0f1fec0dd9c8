package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "lessonbook/internal/handler/dto/request"
	resdto "lessonbook/internal/handler/dto/response"
	"lessonbook/internal/handler/httperr"
	"lessonbook/internal/handler/middleware"
	"lessonbook/internal/usecase/commands"
	"lessonbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	cmds commands.ScheduleCommands
	q    queries.AvailabilityQueries
	loc  *time.Location
}

func NewAvailabilityHandler(cmds commands.ScheduleCommands, q queries.AvailabilityQueries, loc *time.Location) *AvailabilityHandler {
	return &AvailabilityHandler{cmds: cmds, q: q, loc: loc}
}

// @Summary List available slots
// @Description Compute the bookable slots for an instructor on a date
// @Tags availability
// @Produce json
// @Param id path string true "Instructor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /instructors/{id}/slots [get]
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	instructorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid instructor ID format", nil)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.loc)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	slots, err := h.q.ListSlots(c.Request.Context(), instructorID, date)
	if err != nil {
		if errors.Is(err, queries.ErrMalformedRule) {
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Availability rules are malformed", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotViews(slots))
}

// @Summary Replace weekly availability
// @Description Replace the instructor's whole weekly rule set
// @Tags availability
// @Accept json
// @Security BearerAuth
// @Param request body reqdto.ReplaceAvailabilityRequest true "Weekly rules"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /instructors/me/availability [put]
func (h *AvailabilityHandler) ReplaceAvailability(c *gin.Context) {
	instructorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing auth context"), "Unauthorized", nil)
		return
	}

	var req reqdto.ReplaceAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	inputs := make([]commands.WeeklyRuleInput, len(req.Rules))
	for i, r := range req.Rules {
		inputs[i] = commands.WeeklyRuleInput{
			Weekday:     time.Weekday(r.Weekday),
			StartMinute: r.StartMinute,
			EndMinute:   r.EndMinute,
		}
	}

	if err := h.cmds.ReplaceAvailability(c.Request.Context(), instructorID, inputs); err != nil {
		if errors.Is(err, commands.ErrInvalidRule) {
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Availability rules are invalid", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Replace availability failed", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Add time off
// @Description Block a full day or a part of a day for the instructor
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddTimeOffRequest true "Time-off exception"
// @Success 201 {object} resdto.TimeOffResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /instructors/me/time-off [post]
func (h *AvailabilityHandler) AddTimeOff(c *gin.Context) {
	instructorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing auth context"), "Unauthorized", nil)
		return
	}

	var req reqdto.AddTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	date, err := req.ParseDate(h.loc)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	id, err := h.cmds.AddTimeOff(c.Request.Context(), instructorID, commands.TimeOffInput{
		Date:    date,
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
	})
	if err != nil {
		if errors.Is(err, commands.ErrInvalidTimeOff) {
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Time-off exception is invalid", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Add time off failed", nil)
		return
	}

	c.JSON(http.StatusCreated, resdto.TimeOffResponse{ID: id})
}
