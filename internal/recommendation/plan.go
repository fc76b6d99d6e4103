package recommendation

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Risk tolerance values accepted by the API.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

const durationLifetime = "lifetime"

// Plan is a derived recommendation: a formatted plan string naming a
// policy type, coverage amount and duration, plus the rationale.
type Plan struct {
	Plan   string `json:"plan"`
	Reason string `json:"reason"`
}

// Recommend maps applicant attributes to a recommended plan.
// Pure and deterministic, with no failure mode: risk values other than
// high or medium deliberately fall through to the low-risk branch.
// Income does not influence the decision table but is part of the
// applicant profile the caller collects.
func Recommend(age int, income float64, dependents int, riskTolerance string) Plan {
	if age < 40 {
		if riskTolerance == RiskHigh {
			return newPlan("Term Life", 500_000, "20")
		}
		if riskTolerance == RiskMedium {
			return newPlan("Term Life", 300_000, "15")
		}
		return newPlan("Whole Life", 250_000, durationLifetime)
	}

	if age <= 60 {
		if dependents > 0 {
			return newPlan("Whole Life", 400_000, durationLifetime)
		}
		return newPlan("Universal Life", 300_000, durationLifetime)
	}

	return newPlan("Final Expense", 100_000, durationLifetime)
}

// newPlan renders the plan and rationale strings. The duration is a
// year count, or "lifetime" which renders as "life".
func newPlan(planType string, amount int64, duration string) Plan {
	rendered := duration + " years"
	if duration == durationLifetime {
		rendered = "life"
	}

	return Plan{
		Plan:   fmt.Sprintf("%s – $%s for %s", planType, humanize.Comma(amount), rendered),
		Reason: fmt.Sprintf("Based on your age, risk tolerance, and family status, we recommend a %s plan.", planType),
	}
}
