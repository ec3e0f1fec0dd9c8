//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lessonbook/internal/handler/api"
	"lessonbook/internal/usecase/commands"
	"lessonbook/internal/usecase/commands/commandsmock"
	"lessonbook/internal/usecase/queries"
	"lessonbook/internal/usecase/queries/queriesmock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockScheduleCommands
	mockQueries  *queriesmock.MockAvailabilityQueries
	handler      *api.AvailabilityHandler
	instructorID uuid.UUID
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockScheduleCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.handler = api.NewAvailabilityHandler(s.mockCommands, s.mockQueries, time.UTC)
	s.instructorID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.instructorID)
		c.Set("user_role", "instructor")
		c.Next()
	}

	s.router.GET("/instructors/:id/slots", s.handler.ListSlots)
	s.router.PUT("/instructors/me/availability", authMiddleware, s.handler.ReplaceAvailability)
	s.router.POST("/instructors/me/time-off", authMiddleware, s.handler.AddTimeOff)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) perform(method, url string, body any, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer test-token")
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AvailabilityHandlerTestSuite) TestListSlots() {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	s.Run("success: returns the computed slots", func() {
		slots := []queries.SlotView{
			{InstructorID: s.instructorID, StartAt: date.Add(9 * time.Hour), EndAt: date.Add(9*time.Hour + 15*time.Minute)},
			{InstructorID: s.instructorID, StartAt: date.Add(9*time.Hour + 15*time.Minute), EndAt: date.Add(9*time.Hour + 30*time.Minute)},
		}
		s.mockQueries.EXPECT().ListSlots(gomock.Any(), s.instructorID, date).Return(slots, nil).Times(1)

		rec := s.perform(http.MethodGet, "/instructors/"+s.instructorID.String()+"/slots?date=2025-03-10", nil, false)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "09:00:00Z")
	})

	s.Run("day with no availability: returns an empty array", func() {
		s.mockQueries.EXPECT().ListSlots(gomock.Any(), s.instructorID, date).Return([]queries.SlotView{}, nil).Times(1)

		rec := s.perform(http.MethodGet, "/instructors/"+s.instructorID.String()+"/slots?date=2025-03-10", nil, false)
		s.Equal(http.StatusOK, rec.Code)
		s.Equal("[]", rec.Body.String())
	})

	s.Run("malformed rule in storage: returns 422", func() {
		s.mockQueries.EXPECT().ListSlots(gomock.Any(), s.instructorID, date).Return(nil, queries.ErrMalformedRule).Times(1)

		rec := s.perform(http.MethodGet, "/instructors/"+s.instructorID.String()+"/slots?date=2025-03-10", nil, false)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("missing date: returns 400", func() {
		rec := s.perform(http.MethodGet, "/instructors/"+s.instructorID.String()+"/slots", nil, false)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("malformed instructor id: returns 400", func() {
		rec := s.perform(http.MethodGet, "/instructors/not-a-uuid/slots?date=2025-03-10", nil, false)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *AvailabilityHandlerTestSuite) TestReplaceAvailability() {
	reqBody := map[string]any{
		"rules": []map[string]any{
			{"weekday": 1, "start_minute": 540, "end_minute": 1020},
			{"weekday": 3, "start_minute": 600, "end_minute": 720},
		},
	}

	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().
			ReplaceAvailability(gomock.Any(), s.instructorID, gomock.Len(2)).
			Return(nil).Times(1)

		rec := s.perform(http.MethodPut, "/instructors/me/availability", reqBody, true)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("unauthenticated: returns 401", func() {
		rec := s.perform(http.MethodPut, "/instructors/me/availability", reqBody, false)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("weekday out of range: returns 400", func() {
		bad := map[string]any{
			"rules": []map[string]any{{"weekday": 7, "start_minute": 540, "end_minute": 1020}},
		}
		rec := s.perform(http.MethodPut, "/instructors/me/availability", bad, true)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("overlapping rules: returns 422", func() {
		s.mockCommands.EXPECT().
			ReplaceAvailability(gomock.Any(), s.instructorID, gomock.Any()).
			Return(commands.ErrInvalidRule).Times(1)

		rec := s.perform(http.MethodPut, "/instructors/me/availability", reqBody, true)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}

func (s *AvailabilityHandlerTestSuite) TestAddTimeOff() {
	timeOffID := uuid.New()

	s.Run("full day: returns 201 with the id", func() {
		s.mockCommands.EXPECT().
			AddTimeOff(gomock.Any(), s.instructorID, gomock.Any()).
			Return(timeOffID, nil).Times(1)

		rec := s.perform(http.MethodPost, "/instructors/me/time-off", map[string]any{"date": "2025-03-10"}, true)
		s.Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), timeOffID.String())
	})

	s.Run("partial day: forwards the window", func() {
		start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		end := start.Add(2 * time.Hour)
		s.mockCommands.EXPECT().
			AddTimeOff(gomock.Any(), s.instructorID, gomock.Any()).
			DoAndReturn(func(_ any, _ uuid.UUID, in commands.TimeOffInput) (uuid.UUID, error) {
				s.Require().NotNil(in.StartAt)
				s.Require().NotNil(in.EndAt)
				s.True(in.StartAt.Equal(start))
				s.True(in.EndAt.Equal(end))
				return timeOffID, nil
			}).Times(1)

		body := map[string]any{
			"date":     "2025-03-10",
			"start_at": start.Format(time.RFC3339),
			"end_at":   end.Format(time.RFC3339),
		}
		rec := s.perform(http.MethodPost, "/instructors/me/time-off", body, true)
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("malformed date: returns 400", func() {
		rec := s.perform(http.MethodPost, "/instructors/me/time-off", map[string]any{"date": "10/03/2025"}, true)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("inverted window: returns 422", func() {
		s.mockCommands.EXPECT().
			AddTimeOff(gomock.Any(), s.instructorID, gomock.Any()).
			Return(uuid.Nil, commands.ErrInvalidTimeOff).Times(1)

		rec := s.perform(http.MethodPost, "/instructors/me/time-off", map[string]any{"date": "2025-03-10"}, true)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}
