package types

import (
	ierr "github.com/clubbill/clubbill/internal/errors"
	"github.com/samber/lo"
)

// WorkshopType gates which billing path a workshop uses: group workshops go
// through the monthly scheduler, individual counseling is billed per session.
type WorkshopType string

const (
	WorkshopTypeGroup                WorkshopType = "GROUP"
	WorkshopTypeIndividualCounseling WorkshopType = "INDIVIDUAL_COUNSELING"
)

func (t WorkshopType) String() string {
	return string(t)
}

func (t WorkshopType) Validate() error {
	allowed := []WorkshopType{
		WorkshopTypeGroup,
		WorkshopTypeIndividualCounseling,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid workshop type").
			WithHint("Please provide a valid workshop type").
			WithReportableDetails(map[string]any{
				"allowed":  allowed,
				"provided": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
