package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"bazaar/internal/domain"
	"bazaar/internal/domain/entity"
	"bazaar/pkg/errcodes"
	"bazaar/pkg/lox"
)

// RunRepository: журнал завершённых партий.
type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *RunRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.RunNotRecorded, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.RunNotRecorded,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.RunNotRecorded, "failed to commit")
	}

	return nil
}

// Save идемпотентен по id.
func (r *RunRepository) Save(ctx context.Context, run entity.Run) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO runs (
				id, session_id, won, final_money,
				encounters, deals, catches, reports,
				started_at, finished_at
			) VALUES (
				:id, :session_id, :won, :final_money,
				:encounters, :deals, :catches, :reports,
				:started_at, :finished_at
			)
			ON CONFLICT (id) DO NOTHING`

		if _, err := tx.NamedExecContext(ctx, query, fromRun(run)); err != nil {
			return domain.WrapError(err, errcodes.RunNotRecorded, "failed to save run")
		}

		return nil
	})
}

// List: последние партии, новые первыми.
func (r *RunRepository) List(ctx context.Context, limit, offset int) ([]entity.Run, error) {
	query := `
		SELECT * FROM runs
		ORDER BY finished_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	var rows []runSchema
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list runs")
	}

	return lox.Map(rows, runSchema.toDomain), nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (entity.Run, error) {
	var row runSchema
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM runs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Run{}, domain.NewError(errcodes.NotFound, "run not found")
		}
		return entity.Run{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get run")
	}

	return row.toDomain(), nil
}
