//go:build unit

package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticket-hold/internal/handler/api"
	"ticket-hold/internal/usecase/commands"
	"ticket-hold/internal/usecase/queries"
	commandsmock "ticket-hold/tests/mock/commands"
	queriesmock "ticket-hold/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockTicketCommands
	mockQueries  *queriesmock.MockTicketQueries
	handler      *api.ReservationHandler
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockTicketCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockTicketQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)

	s.router.GET("/reservations/:id", s.handler.GetReservation)
	s.router.PUT("/reservations/:id/confirm", s.handler.ConfirmReservation)
	s.router.DELETE("/reservations/:id", s.handler.CancelReservation)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) perform(method, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func sampleReservationView(status, ticketStatus string) *queries.ReservationView {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	return &queries.ReservationView{
		ID:           uuid.New(),
		TicketID:     uuid.New(),
		ZoneID:       uuid.New(),
		ClientID:     uuid.New(),
		Status:       status,
		TicketStatus: ticketStatus,
		ReservedAt:   now,
		ExpiresAt:    now.Add(24 * time.Hour),
	}
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	view := sampleReservationView("reserved", "pending")

	s.mockQueries.EXPECT().
		GetReservation(gomock.Any(), view.ID).
		Return(view, nil)

	w := s.perform(http.MethodGet, "/reservations/"+view.ID.String())
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"status":"reserved"`)
	s.Contains(w.Body.String(), `"ticketStatus":"pending"`)
}

func (s *ReservationHandlerTestSuite) TestGetReservation_NotFound() {
	id := uuid.New()
	s.mockQueries.EXPECT().
		GetReservation(gomock.Any(), id).
		Return(nil, queries.ErrReservationNotFound)

	w := s.perform(http.MethodGet, "/reservations/"+id.String())
	s.Equal(http.StatusNotFound, w.Code)
	s.Contains(w.Body.String(), `"error":{"message":"Reservation not found"}`)
}

func (s *ReservationHandlerTestSuite) TestConfirmReservation() {
	view := sampleReservationView("confirmed", "paid")

	s.mockCommands.EXPECT().
		Confirm(gomock.Any(), view.ID).
		Return(view, nil)

	w := s.perform(http.MethodPut, "/reservations/"+view.ID.String()+"/confirm")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"status":"confirmed"`)
	s.Contains(w.Body.String(), `"ticketStatus":"paid"`)
}

func (s *ReservationHandlerTestSuite) TestConfirmReservation_Errors() {
	testCases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "unknown reservation", err: commands.ErrReservationNotFound, expectCode: http.StatusNotFound},
		{name: "expired hold", err: commands.ErrHoldExpired, expectCode: http.StatusGone},
		{name: "already settled", err: commands.ErrAlreadyTerminal, expectCode: http.StatusConflict},
		{name: "storage failure", err: commands.ErrStorageFailure, expectCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			id := uuid.New()
			s.mockCommands.EXPECT().
				Confirm(gomock.Any(), id).
				Return(nil, tc.err)

			w := s.perform(http.MethodPut, "/reservations/"+id.String()+"/confirm")
			s.Equal(tc.expectCode, w.Code)
		})
	}
}

func (s *ReservationHandlerTestSuite) TestConfirmReservation_InvalidID() {
	w := s.perform(http.MethodPut, "/reservations/oops/confirm")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ReservationHandlerTestSuite) TestCancelReservation() {
	id := uuid.New()
	s.mockCommands.EXPECT().
		CancelReservation(gomock.Any(), id).
		Return(nil)

	w := s.perform(http.MethodDelete, "/reservations/"+id.String())
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ReservationHandlerTestSuite) TestCancelReservation_Errors() {
	testCases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "unknown reservation", err: commands.ErrReservationNotFound, expectCode: http.StatusNotFound},
		{name: "already settled", err: commands.ErrAlreadyTerminal, expectCode: http.StatusConflict},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			id := uuid.New()
			s.mockCommands.EXPECT().
				CancelReservation(gomock.Any(), id).
				Return(tc.err)

			w := s.perform(http.MethodDelete, "/reservations/"+id.String())
			s.Equal(tc.expectCode, w.Code)
		})
	}
}
