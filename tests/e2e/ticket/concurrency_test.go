//go:build e2e

package ticket_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ticket-hold/internal/domain/ticket"
	"ticket-hold/internal/usecase/commands"
	"ticket-hold/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type concurrencySuite struct {
	e2e.SharedSuite
}

func TestConcurrencySuite(t *testing.T) {
	suite.Run(t, new(concurrencySuite))
}

// Two purchases race for the last seat. The zone row lock serializes the
// capacity checks, so exactly one buyer gets the ticket.
func (s *concurrencySuite) TestPurchase_LastSeatRace() {
	ctx := context.Background()
	zoneID := s.CreateZone(1)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = s.Commands.Purchase(ctx, zoneID, uuid.New(), ticket.PaymentCard)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		s.Require().ErrorIs(err, commands.ErrCapacityExceeded)
	}
	s.Equal(1, winners)

	var sold int
	err := s.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM tickets WHERE zone_id = $1 AND status = 'paid'", zoneID).Scan(&sold)
	s.Require().NoError(err)
	s.Equal(1, sold)
}

// A purchase and a hold race for the last seat; holds consume capacity too,
// so still only one of them can land.
func (s *concurrencySuite) TestPurchaseAndReserve_LastSeatRace() {
	ctx := context.Background()
	zoneID := s.CreateZone(1)

	var (
		wg         sync.WaitGroup
		buyErr     error
		reserveErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, buyErr = s.Commands.Purchase(ctx, zoneID, uuid.New(), ticket.PaymentCash)
	}()
	go func() {
		defer wg.Done()
		_, reserveErr = s.Commands.Reserve(ctx, zoneID, uuid.New())
	}()
	wg.Wait()

	if buyErr == nil {
		s.Require().ErrorIs(reserveErr, commands.ErrCapacityExceeded)
	} else {
		s.Require().ErrorIs(buyErr, commands.ErrCapacityExceeded)
		s.Require().NoError(reserveErr)
	}
}

// Confirm races the expiry path on a hold whose expiration has just passed.
// The conditional updates guarantee a single winner: the expiry acts, the
// confirm reports why it lost, and the ticket never ends up paid.
func (s *concurrencySuite) TestConfirmAndExpire_SingleWinner() {
	ctx := context.Background()
	zoneID := s.CreateZone(5)

	held, err := s.Commands.Reserve(ctx, zoneID, uuid.New())
	s.Require().NoError(err)

	s.Clock.Advance(s.Hold.Duration)

	var (
		wg         sync.WaitGroup
		confirmErr error
		acted      bool
		expireErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, confirmErr = s.Commands.Confirm(ctx, held.ID)
	}()
	go func() {
		defer wg.Done()
		acted, expireErr = s.Commands.ExpireOne(ctx, held.ID)
	}()
	wg.Wait()

	s.Require().NoError(expireErr)
	s.True(acted)
	s.Require().Error(confirmErr)
	s.True(
		errors.Is(confirmErr, commands.ErrHoldExpired) || errors.Is(confirmErr, commands.ErrAlreadyTerminal),
		"unexpected confirm error: %v", confirmErr,
	)

	view, err := s.Queries.GetReservation(ctx, held.ID)
	s.Require().NoError(err)
	s.Equal("expired", view.Status)
	s.Equal("cancelled", view.TicketStatus)
}

// Two sweepers visiting the same overdue hold must reclaim it exactly once.
func (s *concurrencySuite) TestExpireOne_ConcurrentSweepers() {
	ctx := context.Background()
	zoneID := s.CreateZone(5)

	held, err := s.Commands.Reserve(ctx, zoneID, uuid.New())
	s.Require().NoError(err)

	s.Clock.Advance(s.Hold.Duration)

	results := make([]bool, 2)
	sweepErrs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], sweepErrs[i] = s.Commands.ExpireOne(ctx, held.ID)
		}(i)
	}
	wg.Wait()

	acted := 0
	for i := range results {
		s.Require().NoError(sweepErrs[i])
		if results[i] {
			acted++
		}
	}
	s.Equal(1, acted)
}
