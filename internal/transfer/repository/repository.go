package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"

	commonerrors "github.com/nikkune/paymybuddy/internal/common/errors"

	"github.com/nikkune/paymybuddy/internal/common/db"
	"github.com/nikkune/paymybuddy/internal/common/money"
	"github.com/nikkune/paymybuddy/internal/transfer/domain"
)

var ErrTransactionNotFound = commonerrors.NewDomainError(
	"TRANSACTION_NOT_FOUND",
	commonerrors.KindNotFound,
	"transaction not found",
)

// Repository persists transfer records. Rows are append-only; there is no
// update or delete surface.
type Repository interface {
	WithQuerier(q db.Querier) Repository
	Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	FindByID(ctx context.Context, id int64) (domain.Transaction, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error)
	ListBetween(ctx context.Context, firstID, secondID int64) ([]domain.Transaction, error)
}

type PgRepository struct {
	q db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{q: q}
}

func (r *PgRepository) WithQuerier(q db.Querier) Repository {
	return &PgRepository{q: q}
}

const transactionColumns = `id, sender_id, receiver_id, COALESCE(description, ''), amount::text, created_at`

func (r *PgRepository) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	start := time.Now()

	row := r.q.QueryRow(
		ctx,
		`INSERT INTO transactions (sender_id, receiver_id, description, amount)
		 VALUES ($1, $2, NULLIF($3, ''), $4::numeric)
		 RETURNING id, created_at`,
		tx.SenderID,
		tx.ReceiverID,
		tx.Description,
		tx.Amount.String(),
	)

	err := row.Scan(&tx.ID, &tx.CreatedAt)
	if err := db.HandleQueryError(err, nil, "create transaction", start); err != nil {
		return domain.Transaction{}, err
	}

	return tx, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.Transaction, error) {
	start := time.Now()

	row := r.q.QueryRow(
		ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`,
		id,
	)

	var (
		tx         domain.Transaction
		amountText string
	)
	err := row.Scan(&tx.ID, &tx.SenderID, &tx.ReceiverID, &tx.Description, &amountText, &tx.CreatedAt)
	if err := db.HandleQueryError(err, ErrTransactionNotFound, "find transaction by id", start); err != nil {
		return domain.Transaction{}, err
	}

	tx.Amount, err = money.Parse(amountText)
	if err != nil {
		return domain.Transaction{}, commonerrors.ErrDatabase.WithCause(err)
	}

	return tx, nil
}

// ListByUser returns every transaction the user took part in, newest first.
func (r *PgRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	start := time.Now()

	rows, err := r.q.Query(
		ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE sender_id = $1 OR receiver_id = $1
		 ORDER BY id DESC`,
		userID,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list transactions by user", start)
	}
	defer rows.Close()

	return collect(rows, "list transactions by user", start)
}

func (r *PgRepository) ListBetween(ctx context.Context, firstID, secondID int64) ([]domain.Transaction, error) {
	start := time.Now()

	rows, err := r.q.Query(
		ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE (sender_id = $1 AND receiver_id = $2)
		    OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY id DESC`,
		firstID,
		secondID,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list transactions between users", start)
	}
	defer rows.Close()

	return collect(rows, "list transactions between users", start)
}

func collect(rows pgx.Rows, operation string, start time.Time) ([]domain.Transaction, error) {
	var list []domain.Transaction
	for rows.Next() {
		var (
			tx         domain.Transaction
			amountText string
		)
		if err := rows.Scan(&tx.ID, &tx.SenderID, &tx.ReceiverID, &tx.Description, &amountText, &tx.CreatedAt); err != nil {
			return nil, db.HandleQueryError(err, nil, operation, start)
		}
		amount, err := money.Parse(amountText)
		if err != nil {
			return nil, commonerrors.ErrDatabase.WithCause(err)
		}
		tx.Amount = amount
		list = append(list, tx)
	}
	if rows.Err() != nil {
		return nil, db.HandleQueryError(rows.Err(), nil, operation, start)
	}

	db.MeasureQueryDuration(operation, start)
	return list, nil
}
