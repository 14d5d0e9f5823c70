package warranty

import (
	"context"
	"fmt"
	"time"

	"repairdesk/internal/core/id"
)

// SaleRepository reads sale dates of sold devices.
type SaleRepository interface {
	GetSaleDate(ctx context.Context, saleLineID id.ID) (time.Time, error)
}

// Service evaluates warranty state. The clock is injected so "now" is read on
// every call and never cached.
type Service struct {
	sales SaleRepository
	now   func() time.Time
}

// NewService creates a new warranty service. now defaults to time.Now.
func NewService(sales SaleRepository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{sales: sales, now: now}
}

// GetWarrantyState evaluates a sale date against asOf, or against the clock when asOf is nil.
func (s *Service) GetWarrantyState(saleDate time.Time, asOf *time.Time) State {
	at := s.now()
	if asOf != nil {
		at = *asOf
	}
	return Evaluate(saleDate, at)
}

// StateForSale looks up the sale line and evaluates it against the clock.
func (s *Service) StateForSale(ctx context.Context, saleLineID id.ID) (State, error) {
	saleDate, err := s.sales.GetSaleDate(ctx, saleLineID)
	if err != nil {
		return State{}, fmt.Errorf("get sale date: %w", err)
	}
	return Evaluate(saleDate, s.now()), nil
}
