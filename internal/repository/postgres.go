package repository

import (
	"context"
	"database/sql"
	"time"

	"skyhunt/pkg/logger"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const kvTable = "kv_entries"

// Repository is the postgres-backed Store. Rows live in kv_entries, created
// by the embedded migrations.
type Repository struct {
	db  *sqlx.DB
	now func() time.Time
}

func New(ctx context.Context, cfg DatabaseConfig) (*Repository, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.GetDatabaseURL())
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	logger.Logger().Info("Connected to database successfully")

	return &Repository{
		db:  db,
		now: time.Now,
	}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	query, args, err := squirrel.
		Select("value").
		From(kvTable).
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", errors.Wrap(err, "failed to build kv select query")
	}

	var value string
	if err = r.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", errors.Wrapf(err, "failed to get %s", key)
	}

	return value, nil
}

func (r *Repository) Set(ctx context.Context, key, value string) error {
	query, args, err := squirrel.
		Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, r.now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build kv upsert query")
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "failed to set %s", key)
	}

	return nil
}

func (r *Repository) Remove(ctx context.Context, key string) error {
	query, args, err := squirrel.
		Delete(kvTable).
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build kv delete query")
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "failed to remove %s", key)
	}

	return nil
}
