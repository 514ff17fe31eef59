// Package validation implements the balanced-entry checks that gate every
// document save and posting. The validator is pure: no I/O, no side effects.
package validation

import (
	"fmt"
	"strings"

	"github.com/erpcore/ledger_engine/internal/apperrors"
	"github.com/erpcore/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ViolationKind classifies one double-entry rule violation.
type ViolationKind string

const (
	InsufficientLines ViolationKind = "INSUFFICIENT_LINES"
	AmbiguousLine     ViolationKind = "AMBIGUOUS_LINE"
	EmptyLine         ViolationKind = "EMPTY_LINE"
	NonPositiveAmount ViolationKind = "NON_POSITIVE_AMOUNT"
	Unbalanced        ViolationKind = "UNBALANCED"
	MissingDebitSide  ViolationKind = "MISSING_DEBIT_SIDE"
	MissingCreditSide ViolationKind = "MISSING_CREDIT_SIDE"
)

// Line is the validator's view of a proposed monetary line. Remove marks a
// line the caller intends to delete; such lines are excluded before any rule
// runs.
type Line struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Remove    bool
}

// FromDomainLines adapts persisted lines for re-validation at posting time.
func FromDomainLines(lines []domain.MonetaryLine) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Line{AccountID: l.AccountID, Debit: l.Debit, Credit: l.Credit}
	}
	return out
}

// Violation is one rule breach. LineIndex is the zero-based position among the
// surviving (non-removed) lines, or -1 for aggregate violations. The decimal
// fields are populated for Unbalanced only.
type Violation struct {
	Kind        ViolationKind   `json:"kind"`
	LineIndex   int             `json:"lineIndex"`
	Message     string          `json:"message"`
	DebitTotal  decimal.Decimal `json:"debitTotal,omitempty"`
	CreditTotal decimal.Decimal `json:"creditTotal,omitempty"`
	Difference  decimal.Decimal `json:"difference,omitempty"`
}

// Result carries every violation found plus the computed totals. Totals are
// only meaningful when the per-line rules passed.
type Result struct {
	Violations  []Violation     `json:"violations"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// OK reports whether the lines satisfy every double-entry invariant.
func (r Result) OK() bool {
	return len(r.Violations) == 0
}

// Err adapts a failing result into the error taxonomy. It returns nil when
// the result is OK.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Result: r}
}

// Error is a failed validation result as an error. It unwraps to
// apperrors.ErrValidation so callers can classify it without inspecting the
// violation list.
type Error struct {
	Result Result
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Result.Violations))
	for i, v := range e.Result.Violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("document lines failed validation: %s", strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() error {
	return apperrors.ErrValidation
}

// rule is one ordered class of checks. Rules run in sequence; the first class
// that produces violations ends the pass, but every violation within that
// class is reported.
type rule func(lines []Line) []Violation

var rules = []rule{
	checkMinimumLines,
	checkExclusivity,
	checkPositivity,
	checkBalanced,
	checkBothSides,
}

// ValidateLines checks a proposed set of monetary lines against the
// double-entry invariants. Lines marked Remove are dropped first. Evaluation
// is class-by-class in rule order: the result carries all violations of the
// first violated class, so a caller can surface the complete set in one
// round trip.
func ValidateLines(lines []Line) Result {
	surviving := make([]Line, 0, len(lines))
	for _, l := range lines {
		if !l.Remove {
			surviving = append(surviving, l)
		}
	}

	result := Result{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, l := range surviving {
		result.TotalDebit = result.TotalDebit.Add(l.Debit)
		result.TotalCredit = result.TotalCredit.Add(l.Credit)
	}

	for _, r := range rules {
		if violations := r(surviving); len(violations) > 0 {
			result.Violations = violations
			return result
		}
	}
	return result
}

func checkMinimumLines(lines []Line) []Violation {
	if len(lines) >= 2 {
		return nil
	}
	return []Violation{{
		Kind:      InsufficientLines,
		LineIndex: -1,
		Message:   fmt.Sprintf("a document requires at least 2 lines, got %d", len(lines)),
	}}
}

func checkExclusivity(lines []Line) []Violation {
	var violations []Violation
	for i, l := range lines {
		hasDebit := !l.Debit.IsZero()
		hasCredit := !l.Credit.IsZero()
		switch {
		case hasDebit && hasCredit:
			violations = append(violations, Violation{
				Kind:      AmbiguousLine,
				LineIndex: i,
				Message:   fmt.Sprintf("line %d carries both a debit and a credit amount", i+1),
			})
		case !hasDebit && !hasCredit:
			violations = append(violations, Violation{
				Kind:      EmptyLine,
				LineIndex: i,
				Message:   fmt.Sprintf("line %d carries neither a debit nor a credit amount", i+1),
			})
		}
	}
	return violations
}

func checkPositivity(lines []Line) []Violation {
	var violations []Violation
	for i, l := range lines {
		amount := l.Debit
		if l.Debit.IsZero() {
			amount = l.Credit
		}
		if !amount.IsPositive() {
			violations = append(violations, Violation{
				Kind:      NonPositiveAmount,
				LineIndex: i,
				Message:   fmt.Sprintf("line %d amount %s must be strictly positive", i+1, amount.String()),
			})
		}
	}
	return violations
}

func checkBalanced(lines []Line) []Violation {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	// Exact decimal equality; these are minor-unit currency values, not
	// floating approximations.
	if totalDebit.Equal(totalCredit) {
		return nil
	}
	return []Violation{{
		Kind:        Unbalanced,
		LineIndex:   -1,
		Message:     fmt.Sprintf("debits %s do not equal credits %s (difference %s)", totalDebit.String(), totalCredit.String(), totalDebit.Sub(totalCredit).Abs().String()),
		DebitTotal:  totalDebit,
		CreditTotal: totalCredit,
		Difference:  totalDebit.Sub(totalCredit).Abs(),
	}}
}

func checkBothSides(lines []Line) []Violation {
	hasDebit := false
	hasCredit := false
	for _, l := range lines {
		if l.Debit.IsPositive() {
			hasDebit = true
		}
		if l.Credit.IsPositive() {
			hasCredit = true
		}
	}
	var violations []Violation
	if !hasDebit {
		violations = append(violations, Violation{
			Kind:      MissingDebitSide,
			LineIndex: -1,
			Message:   "at least one line must be a debit",
		})
	}
	if !hasCredit {
		violations = append(violations, Violation{
			Kind:      MissingCreditSide,
			LineIndex: -1,
			Message:   "at least one line must be a credit",
		})
	}
	return violations
}
