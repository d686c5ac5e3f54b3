package testutil

import (
	"context"
	"time"

	"github.com/clubbill/clubbill/internal/domain/invoice"
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/clubbill/clubbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository. It enforces the same
// one-membership-invoice-per-(member, workshop, month) rule the database
// unique index does, so scheduler tests exercise the real conflict path.
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	copied := *inv
	return &copied
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if inv.InvoiceType == types.InvoiceTypeMembership {
		exists, err := s.ExistsForMonth(ctx, inv.MemberID, inv.WorkshopID, inv.DueDate)
		if err != nil {
			return err
		}
		if exists {
			return ierr.NewError("duplicate invoice").
				WithHintf("an invoice already exists for member %s and workshop %s in this month", inv.MemberID, inv.WorkshopID).
				Mark(ierr.ErrAlreadyExists)
		}
	}

	err := s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
	if err != nil {
		return ierr.WithError(err).
			WithHintf("invoice %s already exists", inv.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || inv.Status == types.StatusDeleted {
		return nil, ierr.NewError("invoice not found").
			WithHintf("invoice %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").
			Mark(ierr.ErrValidation)
	}
	err := s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv))
	if err != nil {
		return ierr.NewError("invoice not found").
			WithHintf("invoice %s was not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, f interface{}) bool {
	filter, ok := f.(*types.InvoiceFilter)
	if !ok || filter == nil {
		return inv.Status != types.StatusDeleted
	}
	if inv.Status != filter.GetStatus() {
		return false
	}
	if filter.MemberID != "" && inv.MemberID != filter.MemberID {
		return false
	}
	if filter.WorkshopID != "" && inv.WorkshopID != filter.WorkshopID {
		return false
	}
	if filter.InvoiceType != "" && inv.InvoiceType != filter.InvoiceType {
		return false
	}
	if len(filter.PaymentStatus) > 0 && !lo.Contains(filter.PaymentStatus, inv.PaymentStatus) {
		return false
	}
	if filter.DueDateFrom != nil && inv.DueDate.Before(*filter.DueDateFrom) {
		return false
	}
	if filter.DueDateTo != nil && inv.DueDate.After(*filter.DueDateTo) {
		return false
	}
	if filter.SchoolYear != "" && inv.SchoolYear != filter.SchoolYear {
		return false
	}
	return true
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	sortFn := func(i, j *invoice.Invoice) bool {
		if !i.DueDate.Equal(j.DueDate) {
			return i.DueDate.After(j.DueDate)
		}
		return i.ReferenceCode < j.ReferenceCode
	}

	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, sortFn)
	if err != nil {
		return nil, err
	}

	result := make([]*invoice.Invoice, len(invoices))
	for i, inv := range invoices {
		result[i] = copyInvoice(inv)
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func (s *InMemoryInvoiceStore) CountForMonth(ctx context.Context, memberID, workshopID string, month time.Time) (int, error) {
	// deleted rows still count so sequence numbers are never reissued
	filterFn := func(ctx context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.MemberID == memberID &&
			inv.WorkshopID == workshopID &&
			sameMonth(inv.DueDate, month)
	}
	return s.InMemoryStore.Count(ctx, nil, filterFn)
}

func (s *InMemoryInvoiceStore) ExistsForMonth(ctx context.Context, memberID, workshopID string, month time.Time) (bool, error) {
	filterFn := func(ctx context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.MemberID == memberID &&
			inv.WorkshopID == workshopID &&
			inv.InvoiceType == types.InvoiceTypeMembership &&
			inv.Status != types.StatusDeleted &&
			sameMonth(inv.DueDate, month)
	}
	count, err := s.InMemoryStore.Count(ctx, nil, filterFn)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *InMemoryInvoiceStore) DeleteByDueMonth(ctx context.Context, month time.Time) (int, error) {
	filterFn := func(ctx context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.Status != types.StatusDeleted && sameMonth(inv.DueDate, month)
	}

	invoices, err := s.InMemoryStore.List(ctx, nil, filterFn, nil)
	if err != nil {
		return 0, err
	}

	for _, inv := range invoices {
		deleted := copyInvoice(inv)
		deleted.Status = types.StatusDeleted
		if err := s.InMemoryStore.Update(ctx, deleted.ID, deleted); err != nil {
			return 0, err
		}
	}
	return len(invoices), nil
}
