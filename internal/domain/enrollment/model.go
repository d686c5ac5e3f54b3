package enrollment

import (
	"time"

	"github.com/clubbill/clubbill/internal/domain/member"
	"github.com/clubbill/clubbill/internal/domain/plan"
	"github.com/clubbill/clubbill/internal/domain/workshop"
	"github.com/clubbill/clubbill/internal/types"
)

// Enrollment is the (member, workshop) relationship carrying a membership
// plan, a month-granular start date anchoring the billing cadence, and an
// optional end date. At most one open enrollment exists per pair.
type Enrollment struct {
	ID         string     `db:"id" json:"id"`
	MemberID   string     `db:"member_id" json:"member_id"`
	WorkshopID string     `db:"workshop_id" json:"workshop_id"`
	PlanID     *string    `db:"plan_id" json:"plan_id,omitempty"`
	StartDate  *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate    *time.Time `db:"end_date" json:"end_date,omitempty"`
	types.BaseModel

	// Loaded relations, populated by GetWithRelations and ListBillable
	Member   *member.Member       `db:"-" json:"member,omitempty"`
	Workshop *workshop.Workshop   `db:"-" json:"workshop,omitempty"`
	Plan     *plan.MembershipPlan `db:"-" json:"plan,omitempty"`
}

// IsOpenAt reports whether the enrollment window covers the given date:
// started on or before it, and not ended before it.
func (e *Enrollment) IsOpenAt(t time.Time) bool {
	if e.StartDate == nil || types.MonthStart(t).Before(types.MonthStart(*e.StartDate)) {
		return false
	}
	if e.EndDate != nil && types.MonthStart(t).After(types.MonthStart(*e.EndDate)) {
		return false
	}
	return true
}
