package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies the account a transaction is booked against.
type AccountType string

const (
	AccountChecking AccountType = "Checking"
	AccountCredit   AccountType = "Credit"
	AccountSavings  AccountType = "Savings"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountCredit, AccountSavings:
		return true
	}
	return false
}

// MinTransactionAmount is the exclusive lower bound for Transaction.Amount.
var MinTransactionAmount = decimal.NewFromInt(10)

// Amount column is numeric(14,2): at most two fraction digits and an
// absolute value below 10^12.
const AmountScale = 2

var AmountLimit = decimal.New(1, 12)

type Transaction struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(14,2)" json:"amount"`
	AccountType AccountType     `gorm:"column:account_type" json:"account_type"`
	OwnerID     string          `gorm:"column:owner_id;index" json:"owner_id"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }
