package recommendation

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is a stored applicant profile. The derived plan is
// computed on demand, never persisted.
type Recommendation struct {
	ID         uuid.UUID `json:"id"`
	Age        int       `json:"age"`
	Income     float64   `json:"income"`
	Dependents int       `json:"dependents"`
	Risk       string    `json:"risk"`
	UserID     uuid.UUID `json:"userId"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
