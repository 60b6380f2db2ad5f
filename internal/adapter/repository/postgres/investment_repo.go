package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// investmentTransactionRepository implements domain.InvestmentTransactionRepository
type investmentTransactionRepository struct {
	q querier
}

const investmentTransactionColumns = `
	id, asset_id, transaction_type, quantity, price_per_unit, total_value,
	transaction_date, notes, created_at
`

func scanInvestmentTransaction(row rowScanner) (*domain.InvestmentTransaction, error) {
	var tx domain.InvestmentTransaction
	err := row.Scan(
		&tx.ID,
		&tx.AssetID,
		&tx.Type,
		&tx.Quantity,
		&tx.PricePerUnit,
		&tx.TotalValue,
		&tx.Date,
		&tx.Notes,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetByID retrieves an investment transaction by its ID
func (r *investmentTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvestmentTransaction, error) {
	query := `SELECT ` + investmentTransactionColumns + ` FROM investment_transactions WHERE id = $1`

	tx, err := scanInvestmentTransaction(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, storeError(err, "investment transaction not found: %s", id)
	}
	return tx, nil
}

// Create inserts a new investment transaction
func (r *investmentTransactionRepository) Create(ctx context.Context, tx *domain.InvestmentTransaction) error {
	query := `
		INSERT INTO investment_transactions (id, asset_id, transaction_type, quantity,
			price_per_unit, total_value, transaction_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		tx.ID,
		tx.AssetID,
		string(tx.Type),
		tx.Quantity,
		tx.PricePerUnit,
		tx.TotalValue,
		tx.Date,
		tx.Notes,
	).Scan(&tx.CreatedAt)
	if err != nil {
		return storeError(err, "failed to create investment transaction")
	}
	return nil
}

// Delete removes an investment transaction
func (r *investmentTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM investment_transactions WHERE id = $1`, id)
	if err != nil {
		return storeError(err, "failed to delete investment transaction")
	}
	return notFound(res, "investment transaction not found: %s", id)
}

// ListByAsset retrieves the asset's transactions, newest first
func (r *investmentTransactionRepository) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]*domain.InvestmentTransaction, error) {
	query := `SELECT ` + investmentTransactionColumns + `
		FROM investment_transactions
		WHERE asset_id = $1
		ORDER BY transaction_date DESC, created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, storeError(err, "failed to list investment transactions")
	}
	defer rows.Close()

	var txs []*domain.InvestmentTransaction
	for rows.Next() {
		tx, err := scanInvestmentTransaction(rows)
		if err != nil {
			return nil, storeError(err, "failed to scan investment transaction")
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError(err, "error iterating investment transactions")
	}

	return txs, nil
}
