package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clubbill/clubbill/internal/domain/invoice"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/logger"
	"github.com/clubbill/clubbill/internal/postgres"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/lib/pq"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, member_id, workshop_id, plan_id, invoice_type, reference_code,
			school_year, amount_due, amount_paid, due_date, payment_status,
			session_date, notes, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :member_id, :workshop_id, :plan_id, :invoice_type, :reference_code,
			:school_year, :amount_due, :amount_paid, :due_date, :payment_status,
			:session_date, :notes, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"member_id", inv.MemberID,
		"reference_code", inv.ReferenceCode,
	)

	_, err := r.db.NamedExecContext(ctx, query, inv)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("an invoice already exists for member %s and workshop %s in this month", inv.MemberID, inv.WorkshopID).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("failed to create invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	query := `SELECT * FROM invoices WHERE id = $1 AND status != 'deleted'`
	err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice not found").
				WithHintf("invoice %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices SET
			amount_due = :amount_due,
			amount_paid = :amount_paid,
			payment_status = :payment_status,
			notes = :notes,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, inv)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update invoice").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("invoice not found").
			WithHintf("invoice %s was not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// buildFilterClauses translates an InvoiceFilter into WHERE clauses and
// positional args. Shared by List and Count so the two always agree.
func buildFilterClauses(filter *types.InvoiceFilter) (string, []interface{}) {
	clauses := []string{"status != 'deleted'"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter == nil {
		return "WHERE " + clauses[0], args
	}
	if filter.GetStatus() != "" {
		clauses[0] = "status = " + arg(filter.GetStatus())
	}
	if filter.MemberID != "" {
		clauses = append(clauses, "member_id = "+arg(filter.MemberID))
	}
	if filter.WorkshopID != "" {
		clauses = append(clauses, "workshop_id = "+arg(filter.WorkshopID))
	}
	if filter.InvoiceType != "" {
		clauses = append(clauses, "invoice_type = "+arg(filter.InvoiceType))
	}
	if len(filter.PaymentStatus) > 0 {
		statuses := make([]string, len(filter.PaymentStatus))
		for i, s := range filter.PaymentStatus {
			statuses[i] = s.String()
		}
		clauses = append(clauses, "payment_status = ANY("+arg(pq.Array(statuses))+")")
	}
	if filter.DueDateFrom != nil {
		clauses = append(clauses, "due_date >= "+arg(*filter.DueDateFrom))
	}
	if filter.DueDateTo != nil {
		clauses = append(clauses, "due_date <= "+arg(*filter.DueDateTo))
	}
	if filter.SchoolYear != "" {
		clauses = append(clauses, "school_year = "+arg(filter.SchoolYear))
	}

	where := "WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	where, args := buildFilterClauses(filter)
	query := `SELECT * FROM invoices ` + where + ` ORDER BY due_date DESC, reference_code ASC`
	if filter != nil && !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var invoices []*invoice.Invoice
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	where, args := buildFilterClauses(filter)
	query := `SELECT COUNT(*) FROM invoices ` + where

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *invoiceRepository) CountForMonth(ctx context.Context, memberID, workshopID string, month time.Time) (int, error) {
	// soft-deleted rows still count so released sequence numbers are not reissued
	query := `
		SELECT COUNT(*) FROM invoices
		WHERE member_id = $1 AND workshop_id = $2
			AND due_date >= $3 AND due_date < $4`

	start := types.MonthStart(month)
	end := start.AddDate(0, 1, 0)

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, memberID, workshopID, start, end)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("failed to count invoices for month").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *invoiceRepository) ExistsForMonth(ctx context.Context, memberID, workshopID string, month time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE member_id = $1 AND workshop_id = $2
				AND invoice_type = $3
				AND due_date >= $4 AND due_date < $5
				AND status != 'deleted'
		)`

	start := types.MonthStart(month)
	end := start.AddDate(0, 1, 0)

	var exists bool
	err := r.db.GetQuerier(ctx).GetContext(ctx, &exists, query, memberID, workshopID, types.InvoiceTypeMembership, start, end)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("failed to check invoice existence").
			Mark(ierr.ErrDatabase)
	}
	return exists, nil
}

func (r *invoiceRepository) DeleteByDueMonth(ctx context.Context, month time.Time) (int, error) {
	// soft delete; the rows stay behind for sequence accounting
	query := `
		UPDATE invoices SET
			status = 'deleted',
			updated_at = $1,
			updated_by = $2
		WHERE due_date >= $3 AND due_date < $4 AND status != 'deleted'`

	start := types.MonthStart(month)
	end := start.AddDate(0, 1, 0)

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, time.Now().UTC(), types.GetUserID(ctx), start, end)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("failed to delete invoices for month").
			Mark(ierr.ErrDatabase)
	}
	n, _ := result.RowsAffected()

	r.logger.Infow("deleted invoices for month",
		"month", types.FormatMonth(start),
		"count", n,
	)
	return int(n), nil
}
