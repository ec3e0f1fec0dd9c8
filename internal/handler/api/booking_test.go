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

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	actorID      uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.actorID)
		c.Set("user_role", "student")
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, s.handler.Create)
	s.router.GET("/bookings", authMiddleware, s.handler.List)
	s.router.POST("/bookings/conflicts", authMiddleware, s.handler.CheckConflicts)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.Get)
	s.router.POST("/bookings/:id/confirm", authMiddleware, s.handler.Confirm)
	s.router.POST("/bookings/:id/cancel", authMiddleware, s.handler.Cancel)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) perform(method, url string, body any, authed bool) *httptest.ResponseRecorder {
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

func (s *BookingHandlerTestSuite) sampleView() *queries.BookingView {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	return &queries.BookingView{
		ID:              uuid.New(),
		StudentID:       s.actorID,
		StudentName:     "Mia Park",
		InstructorID:    uuid.New(),
		InstructorName:  "Jon Ruiz",
		StartAt:         start,
		EndAt:           start.Add(time.Hour),
		Status:          "pending",
		ServiceFeeCents: 500,
		CreatedAt:       start.Add(-24 * time.Hour),
		UpdatedAt:       start.Add(-24 * time.Hour),
	}
}

func (s *BookingHandlerTestSuite) TestCreate() {
	view := s.sampleView()
	reqBody := map[string]any{
		"instructor_id": view.InstructorID.String(),
		"start_at":      view.StartAt.Format(time.RFC3339),
		"end_at":        view.EndAt.Format(time.RFC3339),
	}

	s.Run("success: returns 201 Created", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).Return(view, nil).Times(1)

		rec := s.perform(http.MethodPost, "/bookings", reqBody, true)
		s.Equal(http.StatusCreated, rec.Code)
		s.Contains(rec.Body.String(), view.ID.String())
	})

	s.Run("unauthenticated: returns 401", func() {
		rec := s.perform(http.MethodPost, "/bookings", reqBody, false)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("missing instructor_id: returns 400", func() {
		bad := map[string]any{
			"start_at": view.StartAt.Format(time.RFC3339),
			"end_at":   view.EndAt.Format(time.RFC3339),
		}
		rec := s.perform(http.MethodPost, "/bookings", bad, true)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("conflict: returns 409 with classified overlaps", func() {
		conflictErr := &commands.ConflictError{Result: &queries.ConflictCheckResult{
			HasConflict: true,
			Conflicts: []queries.ConflictItem{{
				BookingID:    uuid.New(),
				InstructorID: view.InstructorID,
				StartAt:      view.StartAt,
				EndAt:        view.EndAt,
				Kind:         "same_instructor",
			}},
		}}
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, conflictErr).Times(1)

		rec := s.perform(http.MethodPost, "/bookings", reqBody, true)
		s.Equal(http.StatusConflict, rec.Code)
		s.Contains(rec.Body.String(), "same_instructor")
	})

	s.Run("unavailable slot: returns 422", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, commands.ErrSlotNotAvailable).Times(1)

		rec := s.perform(http.MethodPost, "/bookings", reqBody, true)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("invalid interval: returns 400", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, commands.ErrInvalidTimeSlot).Times(1)

		rec := s.perform(http.MethodPost, "/bookings", reqBody, true)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestGet() {
	view := s.sampleView()

	s.Run("success: returns 200", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, view.ID).Return(view, nil).Times(1)

		rec := s.perform(http.MethodGet, "/bookings/"+view.ID.String(), nil, true)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), view.InstructorName)
	})

	s.Run("not found: returns 404", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, view.ID).Return(nil, queries.ErrBookingNotFound).Times(1)

		rec := s.perform(http.MethodGet, "/bookings/"+view.ID.String(), nil, true)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("someone else's booking: returns 403", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, view.ID).Return(nil, queries.ErrForbiddenBooking).Times(1)

		rec := s.perform(http.MethodGet, "/bookings/"+view.ID.String(), nil, true)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("malformed id: returns 400", func() {
		rec := s.perform(http.MethodGet, "/bookings/not-a-uuid", nil, true)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestList() {
	s.Run("success: returns the student's bookings", func() {
		items := []*queries.BookingListItem{{
			ID:             uuid.New(),
			InstructorID:   uuid.New(),
			InstructorName: "Jon Ruiz",
			StartAt:        time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC),
			Status:         "confirmed",
		}}
		s.mockQueries.EXPECT().ListByStudent(gomock.Any(), s.actorID).Return(items, nil).Times(1)

		rec := s.perform(http.MethodGet, "/bookings", nil, true)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "confirmed")
	})
}

func (s *BookingHandlerTestSuite) TestConfirm() {
	view := s.sampleView()
	view.Status = "confirmed"

	s.Run("success: returns 200", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := s.perform(http.MethodPost, "/bookings/"+view.ID.String()+"/confirm", nil, true)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "confirmed")
	})

	s.Run("invalid state: returns 409", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), view.ID).Return(nil, commands.ErrInvalidState).Times(1)

		rec := s.perform(http.MethodPost, "/bookings/"+view.ID.String()+"/confirm", nil, true)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("unknown booking: returns 404", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), view.ID).Return(nil, commands.ErrBookingNotFound).Times(1)

		rec := s.perform(http.MethodPost, "/bookings/"+view.ID.String()+"/confirm", nil, true)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	view := s.sampleView()
	view.Status = "cancelled"
	view.RefundCents = 250

	s.Run("success: returns 200 with the refund", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, "sick").Return(view, nil).Times(1)

		rec := s.perform(http.MethodPost, "/bookings/"+view.ID.String()+"/cancel", map[string]any{"reason": "sick"}, true)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"refundCents":250`)
	})

	s.Run("already finalized: returns 409", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), view.ID, "").Return(nil, commands.ErrInvalidState).Times(1)

		rec := s.perform(http.MethodPost, "/bookings/"+view.ID.String()+"/cancel", nil, true)
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCheckConflicts() {
	instructorID := uuid.New()
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	reqBody := map[string]any{
		"instructor_id": instructorID.String(),
		"start_at":      start.Format(time.RFC3339),
		"end_at":        start.Add(time.Hour).Format(time.RFC3339),
	}

	s.Run("success: returns the classification", func() {
		result := &queries.ConflictCheckResult{HasConflict: false}
		s.mockQueries.EXPECT().
			CheckConflict(gomock.Any(), s.actorID, instructorID, gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(result, nil).Times(1)

		rec := s.perform(http.MethodPost, "/bookings/conflicts", reqBody, true)
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"hasConflict":false`)
	})

	s.Run("invalid interval: returns 400", func() {
		s.mockQueries.EXPECT().
			CheckConflict(gomock.Any(), s.actorID, instructorID, gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(nil, queries.ErrInvalidInterval).Times(1)

		rec := s.perform(http.MethodPost, "/bookings/conflicts", reqBody, true)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
