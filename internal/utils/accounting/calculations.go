package accounting

import (
	"fmt"

	"github.com/erpcore/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the sign convention for the account's nature to one
// monetary line:
//
//	DEBIT to ASSET/EXPENSE -> Positive (+)
//	CREDIT to ASSET/EXPENSE -> Negative (-)
//	DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
//	CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(line domain.MonetaryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	amount := line.Amount()
	if line.IsDebit() != accountType.DebitPositive() {
		amount = amount.Neg()
	}
	return amount, nil
}

// SignedBalance derives a scope balance from posted-line sums under the same
// convention: asset/expense scopes are debit-positive, liability/equity/
// revenue scopes are credit-positive.
func SignedBalance(totalDebit, totalCredit decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
	if accountType.DebitPositive() {
		return totalDebit.Sub(totalCredit), nil
	}
	return totalCredit.Sub(totalDebit), nil
}
