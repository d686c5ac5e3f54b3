package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/clubbill/clubbill/internal/domain/enrollment"
	"github.com/clubbill/clubbill/internal/domain/member"
	"github.com/clubbill/clubbill/internal/domain/plan"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/postgres"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type enrollmentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewEnrollmentRepository(db *postgres.DB, logger *logger.Logger) enrollment.Repository {
	return &enrollmentRepository{db: db, logger: logger}
}

func (r *enrollmentRepository) Create(ctx context.Context, e *enrollment.Enrollment) error {
	query := `
		INSERT INTO enrollments (
			id, member_id, workshop_id, plan_id, start_date, end_date,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :member_id, :workshop_id, :plan_id, :start_date, :end_date,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating enrollment",
		"enrollment_id", e.ID,
		"member_id", e.MemberID,
		"workshop_id", e.WorkshopID,
	)

	_, err := r.db.NamedExecContext(ctx, query, e)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("the member already has an open enrollment in this workshop").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("failed to create enrollment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *enrollmentRepository) Get(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	var e enrollment.Enrollment
	query := `SELECT * FROM enrollments WHERE id = $1 AND status != 'deleted'`
	err := r.db.GetQuerier(ctx).GetContext(ctx, &e, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("enrollment not found").
				WithHintf("enrollment %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get enrollment").
			Mark(ierr.ErrDatabase)
	}
	return &e, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, e *enrollment.Enrollment) error {
	query := `
		UPDATE enrollments SET
			plan_id = :plan_id,
			start_date = :start_date,
			end_date = :end_date,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, e)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update enrollment").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("enrollment not found").
			WithHintf("enrollment %s was not found", e.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// enrollmentRow flattens the joined enrollment query into scannable columns
type enrollmentRow struct {
	ID         string     `db:"id"`
	MemberID   string     `db:"member_id"`
	WorkshopID string     `db:"workshop_id"`
	PlanID     *string    `db:"plan_id"`
	StartDate  *time.Time `db:"start_date"`
	EndDate    *time.Time `db:"end_date"`
	Status     string     `db:"status"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	CreatedBy  string     `db:"created_by"`
	UpdatedBy  string     `db:"updated_by"`

	MemberNumber    int    `db:"member_number"`
	MemberFirstName string `db:"member_first_name"`
	MemberLastName  string `db:"member_last_name"`
	MemberActive    bool   `db:"member_active"`

	WorkshopNumber int    `db:"workshop_number"`
	WorkshopName   string `db:"workshop_name"`
	WorkshopType   string `db:"workshop_type"`

	PlanName      *string          `db:"plan_name"`
	PlanFrequency *string          `db:"plan_frequency"`
	PlanFee       *decimal.Decimal `db:"plan_fee"`
	PlanTotalFee  *decimal.Decimal `db:"plan_total_fee"`
}

const enrollmentWithRelationsQuery = `
	SELECT
		e.id, e.member_id, e.workshop_id, e.plan_id, e.start_date, e.end_date,
		e.status, e.created_at, e.updated_at, e.created_by, e.updated_by,
		m.number AS member_number,
		m.first_name AS member_first_name,
		m.last_name AS member_last_name,
		m.active AS member_active,
		w.number AS workshop_number,
		w.name AS workshop_name,
		w.type AS workshop_type,
		p.name AS plan_name,
		p.frequency AS plan_frequency,
		p.fee AS plan_fee,
		p.total_fee AS plan_total_fee
	FROM enrollments e
	JOIN members m ON m.id = e.member_id
	JOIN workshops w ON w.id = e.workshop_id
	LEFT JOIN membership_plans p ON p.id = e.plan_id`

func (row *enrollmentRow) toEnrollment() *enrollment.Enrollment {
	e := &enrollment.Enrollment{
		ID:         row.ID,
		MemberID:   row.MemberID,
		WorkshopID: row.WorkshopID,
		PlanID:     row.PlanID,
		StartDate:  row.StartDate,
		EndDate:    row.EndDate,
		BaseModel: types.BaseModel{
			Status:    types.Status(row.Status),
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
		},
		Member: &member.Member{
			ID:        row.MemberID,
			Number:    row.MemberNumber,
			FirstName: row.MemberFirstName,
			LastName:  row.MemberLastName,
			Active:    row.MemberActive,
		},
		Workshop: &workshop.Workshop{
			ID:     row.WorkshopID,
			Number: row.WorkshopNumber,
			Name:   row.WorkshopName,
			Type:   types.WorkshopType(row.WorkshopType),
		},
	}

	if row.PlanID != nil && row.PlanName != nil {
		p := &plan.MembershipPlan{
			ID:         *row.PlanID,
			WorkshopID: row.WorkshopID,
			Name:       *row.PlanName,
		}
		if row.PlanFrequency != nil {
			p.Frequency = types.BillingFrequency(*row.PlanFrequency)
		}
		if row.PlanFee != nil {
			p.Fee = *row.PlanFee
		}
		if row.PlanTotalFee != nil {
			p.TotalFee = *row.PlanTotalFee
		}
		e.Plan = p
	}

	return e
}

func (r *enrollmentRepository) GetWithRelations(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	var row enrollmentRow
	query := enrollmentWithRelationsQuery + ` WHERE e.id = $1 AND e.status != 'deleted'`
	err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("enrollment not found").
				WithHintf("enrollment %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get enrollment").
			Mark(ierr.ErrDatabase)
	}
	return row.toEnrollment(), nil
}

func (r *enrollmentRepository) ListBillable(ctx context.Context, filter enrollment.BillableFilter) ([]*enrollment.Enrollment, error) {
	// only deletions are filtered here; eligibility is decided by the caller
	query := enrollmentWithRelationsQuery + `
	WHERE e.status = 'published'
		AND m.status != 'deleted'
		AND w.status != 'deleted'`

	args := []interface{}{}
	if len(filter.MemberIDs) > 0 {
		query += ` AND e.member_id = ANY($1)`
		args = append(args, pq.Array(filter.MemberIDs))
	}
	query += ` ORDER BY m.number ASC, w.number ASC`

	var rows []enrollmentRow
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list billable enrollments").
			Mark(ierr.ErrDatabase)
	}

	enrollments := make([]*enrollment.Enrollment, len(rows))
	for i := range rows {
		enrollments[i] = rows[i].toEnrollment()
	}
	return enrollments, nil
}

func (r *enrollmentRepository) ListByMember(ctx context.Context, memberID string) ([]*enrollment.Enrollment, error) {
	query := enrollmentWithRelationsQuery + `
	WHERE e.member_id = $1 AND e.status != 'deleted'
	ORDER BY w.number ASC`

	var rows []enrollmentRow
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, memberID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list enrollments").
			Mark(ierr.ErrDatabase)
	}

	enrollments := make([]*enrollment.Enrollment, len(rows))
	for i := range rows {
		enrollments[i] = rows[i].toEnrollment()
	}
	return enrollments, nil
}
