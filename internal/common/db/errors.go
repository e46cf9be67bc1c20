package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	commonerrors "github.com/nikkune/paymybuddy/internal/common/errors"
	"github.com/nikkune/paymybuddy/internal/observability/metrics"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

func extractTableFromOperation(operation string) string {
	operation = strings.ToLower(operation)
	if strings.Contains(operation, "connection") || strings.Contains(operation, "edge") {
		return "connections"
	}
	if strings.Contains(operation, "user") || strings.Contains(operation, "balance") {
		return "users"
	}
	if strings.Contains(operation, "transaction") || strings.Contains(operation, "transfer") {
		return "transactions"
	}
	return "unknown"
}

// ClassifyError translates driver failures into domain error kinds.
// notFoundErr is returned for pgx.ErrNoRows; callers pass the sentinel that
// names what was being looked up. A nil notFoundErr maps no-rows to INTERNAL.
func ClassifyError(err error, notFoundErr error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		if notFoundErr != nil {
			return notFoundErr
		}
		return commonerrors.ErrDatabase.WithCause(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return commonerrors.ErrUniqueViolation.WithCause(err)
		case pgCheckViolation:
			return commonerrors.ErrDatabase.WithCause(
				fmt.Errorf("check constraint %s violated: %w", pgErr.ConstraintName, err),
			)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return commonerrors.ErrStoreUnavailable.WithCause(err)
	}

	return commonerrors.ErrDatabase.WithCause(fmt.Errorf("failed to %s: %w", operation, err))
}

func HandleQueryError(err error, notFoundErr error, operation string, startTime time.Time) error {
	table := extractTableFromOperation(operation)
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())

	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		metrics.DBQueryErrors.WithLabelValues(operation, table, fmt.Sprintf("%T", err)).Inc()
	}
	return ClassifyError(err, notFoundErr, operation)
}

func HandleExecError(err error, operation string, startTime time.Time) error {
	table := extractTableFromOperation(operation)
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())

	if err == nil {
		return nil
	}
	metrics.DBQueryErrors.WithLabelValues(operation, table, fmt.Sprintf("%T", err)).Inc()
	return ClassifyError(err, nil, operation)
}

func MeasureQueryDuration(operation string, startTime time.Time) {
	table := extractTableFromOperation(operation)
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())
}
