package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubbill/clubbill/internal/cache"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/postgres"
	"github.com/clubbill/clubbill/internal/types"
)

type workshopRepository struct {
	db     *postgres.DB
	logger *logger.Logger
	cache  cache.Cache
}

func NewWorkshopRepository(db *postgres.DB, logger *logger.Logger, c cache.Cache) workshop.Repository {
	return &workshopRepository{db: db, logger: logger, cache: c}
}

func (r *workshopRepository) Create(ctx context.Context, w *workshop.Workshop) error {
	query := `
		INSERT INTO workshops (
			id, number, name, type,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :number, :name, :type,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating workshop", "workshop_id", w.ID)

	_, err := r.db.NamedExecContext(ctx, query, w)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("a workshop with this number already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("failed to create workshop").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *workshopRepository) Get(ctx context.Context, id string) (*workshop.Workshop, error) {
	key := cache.GenerateKey(cache.PrefixWorkshop, id)
	if cached, found := r.cache.Get(ctx, key); found {
		if w, ok := cached.(*workshop.Workshop); ok {
			return w, nil
		}
	}

	var w workshop.Workshop
	query := `SELECT * FROM workshops WHERE id = $1 AND status != 'deleted'`
	err := r.db.GetQuerier(ctx).GetContext(ctx, &w, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("workshop not found").
				WithHintf("workshop %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get workshop").
			Mark(ierr.ErrDatabase)
	}

	r.cache.Set(ctx, key, &w, cache.DefaultExpiration)
	return &w, nil
}

func (r *workshopRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*workshop.Workshop, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}

	var workshops []*workshop.Workshop
	query := `
		SELECT * FROM workshops
		WHERE status = $1
		ORDER BY number ASC
		LIMIT $2 OFFSET $3`

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &workshops, query,
		filter.GetStatus(), filter.GetLimit(), filter.GetOffset())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list workshops").
			Mark(ierr.ErrDatabase)
	}
	return workshops, nil
}
