// Package sales_repo reads sold line items for warranty lookups.
package sales_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain/warranty"
	"repairdesk/internal/infrastructure/storage/postgres"
)

// SalesRepo implements warranty.SaleRepository.
type SalesRepo struct {
	txManager *postgres.TxManager
}

var _ warranty.SaleRepository = (*SalesRepo)(nil)

// NewSalesRepo creates a new sales repository.
func NewSalesRepo(txManager *postgres.TxManager) *SalesRepo {
	return &SalesRepo{txManager: txManager}
}

// GetSaleDate implements warranty.SaleRepository.
func (r *SalesRepo) GetSaleDate(ctx context.Context, saleLineID id.ID) (time.Time, error) {
	var soldAt time.Time
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx,
		`SELECT sold_at FROM sales_line_items WHERE id = $1`, saleLineID,
	).Scan(&soldAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, apperror.NewNotFound("sales line item", saleLineID)
		}
		return time.Time{}, fmt.Errorf("get sale date: %w", err)
	}
	return soldAt, nil
}
