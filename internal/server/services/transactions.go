package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// TransactionInput carries the mutable fields of a transaction.
type TransactionInput struct {
	Amount      decimal.Decimal    `json:"amount"`
	AccountType models.AccountType `json:"account_type"`
}

// normalize applies the Checking default and validates the input.
func (in *TransactionInput) normalize() error {
	if in.AccountType == "" {
		in.AccountType = models.AccountChecking
	}
	if !in.AccountType.Valid() {
		return fmt.Errorf("%w: account_type must be one of Checking, Credit, Savings", common.ErrorValidation)
	}
	if in.Amount.Exponent() < -models.AmountScale && !in.Amount.Equal(in.Amount.Truncate(models.AmountScale)) {
		return fmt.Errorf("%w: amount must have at most %d decimal places", common.ErrorValidation, models.AmountScale)
	}
	if in.Amount.Abs().GreaterThanOrEqual(models.AmountLimit) {
		return fmt.Errorf("%w: amount must be less than %s", common.ErrorValidation, models.AmountLimit.String())
	}
	if !in.Amount.GreaterThan(models.MinTransactionAmount) {
		return fmt.Errorf("%w: amount must be greater than %s", common.ErrorValidation, models.MinTransactionAmount.StringFixed(2))
	}
	return nil
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: transaction id must be greater than 0", common.ErrorValidation)
	}
	return nil
}

// TransactionService implements transaction CRUD. Regular operations only
// ever see the caller's own rows; a row owned by someone else is reported
// as common.ErrorNotFound.
type TransactionService struct {
	repomanager repomanager.RepositoryManager
}

func NewTransactionService(m repomanager.RepositoryManager) *TransactionService {
	return &TransactionService{repomanager: m}
}

func (s *TransactionService) List(ctx context.Context, owner string) ([]*models.Transaction, error) {
	list, err := s.repomanager.Transactions(ctx).ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	return list, nil
}

func (s *TransactionService) Get(ctx context.Context, owner string, id int64) (*models.Transaction, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.owned(ctx, s.repomanager, owner, id)
}

func (s *TransactionService) Create(ctx context.Context, owner string, in TransactionInput) (*models.Transaction, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	tx := &models.Transaction{Amount: in.Amount, AccountType: in.AccountType, OwnerID: owner}
	if err := s.repomanager.Transactions(ctx).Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("error creating transaction: %w", err)
	}
	return tx, nil
}

func (s *TransactionService) Update(ctx context.Context, owner string, id int64, in TransactionInput) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := in.normalize(); err != nil {
		return err
	}
	return s.repomanager.WithTx(ctx, func(tx repomanager.RepositoryManager) error {
		if _, err := s.owned(ctx, tx, owner, id); err != nil {
			return err
		}
		if err := tx.Transactions(ctx).Update(ctx, id, in.Amount, in.AccountType); err != nil {
			return fmt.Errorf("error updating transaction: %w", err)
		}
		return nil
	})
}

func (s *TransactionService) Delete(ctx context.Context, owner string, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repomanager.WithTx(ctx, func(tx repomanager.RepositoryManager) error {
		if _, err := s.owned(ctx, tx, owner, id); err != nil {
			return err
		}
		if err := tx.Transactions(ctx).Delete(ctx, id); err != nil {
			return fmt.Errorf("error deleting transaction: %w", err)
		}
		return nil
	})
}

// ListAll returns every transaction regardless of owner. Admin only.
func (s *TransactionService) ListAll(ctx context.Context) ([]*models.Transaction, error) {
	list, err := s.repomanager.Transactions(ctx).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	return list, nil
}

// DeleteAny deletes a transaction regardless of owner. Admin only.
func (s *TransactionService) DeleteAny(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repomanager.Transactions(ctx).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting transaction: %w", err)
	}
	return nil
}

func (s *TransactionService) owned(ctx context.Context, m repomanager.RepositoryManager, owner string, id int64) (*models.Transaction, error) {
	tx, err := m.Transactions(ctx).FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error searching transaction: %w", err)
	}
	if tx.OwnerID != owner {
		return nil, fmt.Errorf("error searching transaction: %w", common.ErrorNotFound)
	}
	return tx, nil
}
