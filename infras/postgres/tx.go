package postgres

import (
	"context"
	"errors"
	"fmt"
	"salon/shared/constant"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

type (
	txKey      struct{}
	primaryKey struct{}
)

// WithTx runs fn inside a write transaction carried by the returned context.
// Nested calls join the outer transaction.
func (c *Connection) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("[WithTx] failed to begin transaction")

		return fmt.Errorf("begin transaction: %w", err)
	}

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("[WithTx] failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("[WithTx] failed to commit transaction")

		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// TxFromContext returns the transaction opened by WithTx, if any.
func TxFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey{}).(*sqlx.Tx)

	return tx
}

// OnPrimary routes the reads made with the returned context to the write endpoint.
func OnPrimary(ctx context.Context) context.Context {
	return context.WithValue(ctx, primaryKey{}, true)
}

func ReadsPrimary(ctx context.Context) bool {
	primary, _ := ctx.Value(primaryKey{}).(bool)

	return primary
}

func IsUniqueViolation(err error) bool {
	return hasCode(err, constant.PqErrorCodeUniqueViolation)
}

func IsForeignKeyViolation(err error) bool {
	return hasCode(err, constant.PqErrorCodeFkViolation)
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}
