package member

import (
	"github.com/clubbill/clubbill/internal/types"
)

// Member represents a club member. The billing engine only reads the active
// flag and the legacy member number used in invoice reference codes.
type Member struct {
	ID        string `db:"id" json:"id"`
	Number    int    `db:"number" json:"number"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Active    bool   `db:"active" json:"active"`
	types.BaseModel
}

// FullName returns the member's display name
func (m *Member) FullName() string {
	if m.FirstName == "" {
		return m.LastName
	}
	return m.FirstName + " " + m.LastName
}
