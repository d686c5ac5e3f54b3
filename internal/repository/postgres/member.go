package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubbill/clubbill/internal/domain/member"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/postgres"
	"github.com/clubbill/clubbill/internal/types"
)

type memberRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewMemberRepository(db *postgres.DB, logger *logger.Logger) member.Repository {
	return &memberRepository{db: db, logger: logger}
}

func (r *memberRepository) Create(ctx context.Context, m *member.Member) error {
	query := `
		INSERT INTO members (
			id, number, first_name, last_name, email, active,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :number, :first_name, :last_name, :email, :active,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating member", "member_id", m.ID)

	_, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("a member with this number already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("failed to create member").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *memberRepository) Get(ctx context.Context, id string) (*member.Member, error) {
	var m member.Member
	query := `SELECT * FROM members WHERE id = $1 AND status != 'deleted'`
	err := r.db.GetQuerier(ctx).GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("member not found").
				WithHintf("member %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get member").
			Mark(ierr.ErrDatabase)
	}
	return &m, nil
}

func (r *memberRepository) Update(ctx context.Context, m *member.Member) error {
	query := `
		UPDATE members SET
			first_name = :first_name,
			last_name = :last_name,
			email = :email,
			active = :active,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update member").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("member not found").
			WithHintf("member %s was not found", m.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *memberRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*member.Member, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}

	var members []*member.Member
	query := `
		SELECT * FROM members
		WHERE status = $1
		ORDER BY number ASC
		LIMIT $2 OFFSET $3`

	err := r.db.GetQuerier(ctx).SelectContext(ctx, &members, query,
		filter.GetStatus(), filter.GetLimit(), filter.GetOffset())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list members").
			Mark(ierr.ErrDatabase)
	}
	return members, nil
}
