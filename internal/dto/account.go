package dto

import (
	"time"

	"github.com/erpcore/ledger_engine/internal/core/domain"
)

// CreateAccountRequest seeds an entry in the account directory.
type CreateAccountRequest struct {
	Code         string             `json:"code" binding:"required"`
	Name         string             `json:"name" binding:"required"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3"`
	Description  string             `json:"description"`
}

// AccountResponse is the API shape of an account.
type AccountResponse struct {
	AccountID    string             `json:"accountID"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	AccountType  domain.AccountType `json:"accountType"`
	CurrencyCode string             `json:"currencyCode"`
	Description  string             `json:"description,omitempty"`
	IsActive     bool               `json:"isActive"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// ToAccountResponse converts a domain account to its API shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    a.AccountID,
		Code:         a.Code,
		Name:         a.Name,
		AccountType:  a.AccountType,
		CurrencyCode: a.CurrencyCode,
		Description:  a.Description,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
	}
}
