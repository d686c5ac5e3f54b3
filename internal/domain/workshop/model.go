package workshop

import (
	"github.com/clubbill/clubbill/internal/types"
)

// Workshop represents a recurring activity members enroll in. The type tag
// decides the billing path: group workshops are invoiced by the monthly
// scheduler, individual counseling only through session invoices.
type Workshop struct {
	ID     string             `db:"id" json:"id"`
	Number int                `db:"number" json:"number"`
	Name   string             `db:"name" json:"name"`
	Type   types.WorkshopType `db:"type" json:"type"`
	types.BaseModel
}

// IsIndividualCounseling reports whether the workshop is billed per session
func (w *Workshop) IsIndividualCounseling() bool {
	return w.Type == types.WorkshopTypeIndividualCounseling
}
