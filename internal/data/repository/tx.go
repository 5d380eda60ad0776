package repository

import (
	"context"
	"errors"
	"fmt"

	"cinema-backoffice/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Repository) error) error
}

type pgTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(tx *Repository) error) (err error) {
	tx, err := t.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err = fn(newRepository(tx, t.log)); err == nil {
		if err = tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", translate(err))
		}
		return nil
	}

	if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
		t.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		return errors.Join(err, rollbackErr)
	}

	return err
}
