package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clubbill/clubbill/internal/domain/member"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	ierr "github.com/clubbill/clubbill/internal/errors"
)

// ReferenceCodeService produces the reference code printed on an invoice,
// in the form YYYYMM-WWWCCC-NNN: due month, workshop number, member number
// and a per-(member, workshop, month) sequence.
type ReferenceCodeService interface {
	GenerateReferenceCode(ctx context.Context, m *member.Member, w *workshop.Workshop, dueDate time.Time) (string, error)
}

type referenceCodeService struct {
	ServiceParams
}

func NewReferenceCodeService(params ServiceParams) ReferenceCodeService {
	return &referenceCodeService{ServiceParams: params}
}

func (s *referenceCodeService) GenerateReferenceCode(ctx context.Context, m *member.Member, w *workshop.Workshop, dueDate time.Time) (string, error) {
	if m == nil || w == nil {
		return "", ierr.NewError("member and workshop are required").
			WithHint("reference codes are derived from the member and workshop numbers").
			Mark(ierr.ErrValidation)
	}

	// the sequence counts existing invoices at generation time; a failed
	// count must fail generation rather than risk a colliding code
	count, err := s.InvoiceRepo.CountForMonth(ctx, m.ID, w.ID, dueDate)
	if err != nil {
		return "", err
	}

	code := fmt.Sprintf("%s-%03d%03d-%03d",
		dueDate.UTC().Format("200601"),
		w.Number,
		m.Number,
		count+1,
	)
	return code, nil
}
