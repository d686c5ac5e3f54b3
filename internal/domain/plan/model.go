package plan

import (
	"github.com/clubbill/clubbill/internal/types"
	"github.com/shopspring/decimal"
)

// MembershipPlan belongs to a workshop and carries the billing frequency and
// fee applied to enrollments under it.
type MembershipPlan struct {
	ID         string                 `db:"id" json:"id"`
	WorkshopID string                 `db:"workshop_id" json:"workshop_id"`
	Name       string                 `db:"name" json:"name"`
	Frequency  types.BillingFrequency `db:"frequency" json:"frequency"`
	Fee        decimal.Decimal        `db:"fee" json:"fee"`
	TotalFee   decimal.Decimal        `db:"total_fee" json:"total_fee"`
	types.BaseModel
}

// EffectiveFee returns the amount invoiced per billing occurrence: the total
// fee when set, the base fee otherwise.
func (p *MembershipPlan) EffectiveFee() decimal.Decimal {
	if p.TotalFee.IsPositive() {
		return p.TotalFee
	}
	return p.Fee
}
