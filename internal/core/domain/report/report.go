package report

import (
	"fmt"
	"time"
)

// Period identifies the reporting window kind.
type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func (p Period) String() string {
	return string(p)
}

func (p Period) IsValid() bool {
	switch p {
	case PeriodMonthly, PeriodYearly:
		return true
	default:
		return false
	}
}

// Summary is the aggregate returned by the report endpoints.
type Summary struct {
	TotalExpenses float64 `json:"totalExpenses"`
	TotalBudgets  float64 `json:"totalBudgets"`
}

// Window is a time range used to select records for a report.
//
// Expenses are matched on the half-open range [ExpensesFrom, ExpensesTo).
// Budgets are matched when their [start, end] period overlaps
// [BudgetsFrom, BudgetsTo], both ends inclusive.
type Window struct {
	ExpensesFrom time.Time
	ExpensesTo   time.Time
	BudgetsFrom  time.Time
	BudgetsTo    time.Time
}

// WindowFor computes the report window for period as seen at now, in now's location.
//
// Monthly: expenses dated in the current calendar month, budgets active at now.
// Yearly: expenses dated in the current calendar year, budgets overlapping
// Jan 1 .. Dec 31 of that year.
func WindowFor(p Period, now time.Time) (Window, error) {
	loc := now.Location()
	switch p {
	case PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return Window{
			ExpensesFrom: start,
			ExpensesTo:   start.AddDate(0, 1, 0),
			BudgetsFrom:  now,
			BudgetsTo:    now,
		}, nil
	case PeriodYearly:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return Window{
			ExpensesFrom: start,
			ExpensesTo:   start.AddDate(1, 0, 0),
			BudgetsFrom:  start,
			BudgetsTo:    time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, loc),
		}, nil
	default:
		return Window{}, fmt.Errorf("unknown report period %q", p)
	}
}
