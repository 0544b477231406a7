//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticket-hold/internal/domain/ticket"
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

type TicketHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockTicketCommands
	mockQueries  *queriesmock.MockTicketQueries
	handler      *api.TicketHandler
	clientID     uuid.UUID
}

func (s *TicketHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockTicketCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockTicketQueries(s.mockCtrl)
	s.handler = api.NewTicketHandler(s.mockCommands, s.mockQueries)
	s.clientID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("client_id", s.clientID)
		c.Next()
	}

	s.router.POST("/tickets", authMiddleware, s.handler.CreateTicket)
	s.router.GET("/tickets", authMiddleware, s.handler.GetClientTickets)
	s.router.GET("/tickets/:id", authMiddleware, s.handler.GetTicket)
	s.router.DELETE("/tickets/:id", authMiddleware, s.handler.CancelTicket)
	s.router.GET("/zones/:id", authMiddleware, s.handler.GetZone)
}

func (s *TicketHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestTicketHandlerSuite(t *testing.T) {
	suite.Run(t, new(TicketHandlerTestSuite))
}

func (s *TicketHandlerTestSuite) perform(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer test-token")
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func sampleTicketView(clientID uuid.UUID) *queries.TicketView {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	return &queries.TicketView{
		ID:            uuid.New(),
		ZoneID:        uuid.New(),
		ClientID:      clientID,
		QRCode:        "ABCDEF0123456789",
		PaymentMethod: "card",
		Status:        "paid",
		PurchasedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ================================================================================
// CreateTicket
// ================================================================================

func (s *TicketHandlerTestSuite) TestCreateTicket_Purchase() {
	view := sampleTicketView(s.clientID)

	s.mockCommands.EXPECT().
		Purchase(gomock.Any(), view.ZoneID, s.clientID, ticket.PaymentCard).
		Return(view, nil)

	w := s.perform(http.MethodPost, "/tickets", gin.H{
		"zoneId":        view.ZoneID,
		"paymentMethod": "card",
	})

	s.Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), view.ID.String())
	s.Contains(w.Body.String(), `"qrCode":"ABCDEF0123456789"`)
}

func (s *TicketHandlerTestSuite) TestCreateTicket_HoldRoutesToReserve() {
	zoneID := uuid.New()
	view := &queries.ReservationView{
		ID:           uuid.New(),
		TicketID:     uuid.New(),
		ZoneID:       zoneID,
		ClientID:     s.clientID,
		Status:       "reserved",
		TicketStatus: "pending",
	}

	s.mockCommands.EXPECT().
		Reserve(gomock.Any(), zoneID, s.clientID).
		Return(view, nil)

	w := s.perform(http.MethodPost, "/tickets", gin.H{
		"zoneId":        zoneID,
		"paymentMethod": "none",
	})

	s.Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), `"status":"reserved"`)
}

func (s *TicketHandlerTestSuite) TestCreateTicket_Errors() {
	zoneID := uuid.New()

	testCases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "unknown zone", err: commands.ErrZoneNotFound, expectCode: http.StatusNotFound},
		{name: "sold out zone", err: commands.ErrCapacityExceeded, expectCode: http.StatusConflict},
		{name: "invalid payment method", err: commands.ErrDomainValidation, expectCode: http.StatusUnprocessableEntity},
		{name: "storage failure", err: commands.ErrStorageFailure, expectCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mockCommands.EXPECT().
				Purchase(gomock.Any(), zoneID, s.clientID, ticket.PaymentCard).
				Return(nil, tc.err)

			w := s.perform(http.MethodPost, "/tickets", gin.H{
				"zoneId":        zoneID,
				"paymentMethod": "card",
			})
			s.Equal(tc.expectCode, w.Code)
		})
	}
}

func (s *TicketHandlerTestSuite) TestCreateTicket_InvalidBody() {
	w := s.perform(http.MethodPost, "/tickets", gin.H{"paymentMethod": "card"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TicketHandlerTestSuite) TestCreateTicket_Unauthorized() {
	req := httptest.NewRequest(http.MethodPost, "/tickets", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

// ================================================================================
// GetTicket / GetClientTickets
// ================================================================================

func (s *TicketHandlerTestSuite) TestGetTicket() {
	view := sampleTicketView(s.clientID)

	s.mockQueries.EXPECT().
		GetTicket(gomock.Any(), view.ID).
		Return(view, nil)

	w := s.perform(http.MethodGet, "/tickets/"+view.ID.String(), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), view.ID.String())
}

func (s *TicketHandlerTestSuite) TestGetTicket_NotFound() {
	id := uuid.New()
	s.mockQueries.EXPECT().
		GetTicket(gomock.Any(), id).
		Return(nil, queries.ErrTicketNotFound)

	w := s.perform(http.MethodGet, "/tickets/"+id.String(), nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *TicketHandlerTestSuite) TestGetTicket_InvalidID() {
	w := s.perform(http.MethodGet, "/tickets/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TicketHandlerTestSuite) TestGetClientTickets() {
	views := []*queries.TicketView{sampleTicketView(s.clientID), sampleTicketView(s.clientID)}

	s.mockQueries.EXPECT().
		ListByClient(gomock.Any(), s.clientID).
		Return(views, nil)

	w := s.perform(http.MethodGet, "/tickets", nil)
	s.Equal(http.StatusOK, w.Code)

	var response []json.RawMessage
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	s.Len(response, 2)
}

// ================================================================================
// CancelTicket
// ================================================================================

func (s *TicketHandlerTestSuite) TestCancelTicket() {
	id := uuid.New()
	s.mockCommands.EXPECT().
		CancelTicket(gomock.Any(), id).
		Return(nil)

	w := s.perform(http.MethodDelete, "/tickets/"+id.String(), nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *TicketHandlerTestSuite) TestCancelTicket_Errors() {
	testCases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "unknown ticket", err: commands.ErrTicketNotFound, expectCode: http.StatusNotFound},
		{name: "already settled", err: commands.ErrAlreadyTerminal, expectCode: http.StatusConflict},
		{name: "storage failure", err: commands.ErrStorageFailure, expectCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			id := uuid.New()
			s.mockCommands.EXPECT().
				CancelTicket(gomock.Any(), id).
				Return(tc.err)

			w := s.perform(http.MethodDelete, "/tickets/"+id.String(), nil)
			s.Equal(tc.expectCode, w.Code)
		})
	}
}

// ================================================================================
// GetZone
// ================================================================================

func (s *TicketHandlerTestSuite) TestGetZone() {
	view := &queries.ZoneView{
		ID:       uuid.New(),
		Name:     "VIP",
		Capacity: 100,
	}

	s.mockQueries.EXPECT().
		GetZone(gomock.Any(), view.ID).
		Return(view, nil)

	w := s.perform(http.MethodGet, "/zones/"+view.ID.String(), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"name":"VIP"`)
}

func (s *TicketHandlerTestSuite) TestGetZone_NotFound() {
	id := uuid.New()
	s.mockQueries.EXPECT().
		GetZone(gomock.Any(), id).
		Return(nil, queries.ErrZoneNotFound)

	w := s.perform(http.MethodGet, "/zones/"+id.String(), nil)
	s.Equal(http.StatusNotFound, w.Code)
}
