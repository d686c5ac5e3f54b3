package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubbill/clubbill/internal/cache"
	"github.com/clubbill/clubbill/internal/domain/plan"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/postgres"
)

type planRepository struct {
	db     *postgres.DB
	logger *logger.Logger
	cache  cache.Cache
}

func NewPlanRepository(db *postgres.DB, logger *logger.Logger, c cache.Cache) plan.Repository {
	return &planRepository{db: db, logger: logger, cache: c}
}

func (r *planRepository) Create(ctx context.Context, p *plan.MembershipPlan) error {
	query := `
		INSERT INTO membership_plans (
			id, workshop_id, name, frequency, fee, total_fee,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :workshop_id, :name, :frequency, :fee, :total_fee,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating membership plan", "plan_id", p.ID, "workshop_id", p.WorkshopID)

	_, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to create membership plan").
			Mark(ierr.ErrDatabase)
	}

	// the workshop's plan list changed
	r.cache.Delete(ctx, cache.GenerateKey(cache.PrefixPlan, "workshop", p.WorkshopID))
	return nil
}

func (r *planRepository) Get(ctx context.Context, id string) (*plan.MembershipPlan, error) {
	key := cache.GenerateKey(cache.PrefixPlan, id)
	if cached, found := r.cache.Get(ctx, key); found {
		if p, ok := cached.(*plan.MembershipPlan); ok {
			return p, nil
		}
	}

	var p plan.MembershipPlan
	query := `SELECT * FROM membership_plans WHERE id = $1 AND status != 'deleted'`
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("membership plan not found").
				WithHintf("membership plan %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get membership plan").
			Mark(ierr.ErrDatabase)
	}

	r.cache.Set(ctx, key, &p, cache.DefaultExpiration)
	return &p, nil
}

func (r *planRepository) ListByWorkshop(ctx context.Context, workshopID string) ([]*plan.MembershipPlan, error) {
	key := cache.GenerateKey(cache.PrefixPlan, "workshop", workshopID)
	if cached, found := r.cache.Get(ctx, key); found {
		if plans, ok := cached.([]*plan.MembershipPlan); ok {
			return plans, nil
		}
	}

	var plans []*plan.MembershipPlan
	query := `
		SELECT * FROM membership_plans
		WHERE workshop_id = $1 AND status != 'deleted'
		ORDER BY name ASC`

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &plans, query, workshopID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list membership plans").
			Mark(ierr.ErrDatabase)
	}

	r.cache.Set(ctx, key, plans, cache.DefaultExpiration)
	return plans, nil
}
