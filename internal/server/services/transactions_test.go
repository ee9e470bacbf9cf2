package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func in(amount string, at models.AccountType) TransactionInput {
	return TransactionInput{Amount: decimal.RequireFromString(amount), AccountType: at}
}

func TestTransactionCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   TransactionInput
		wantErr bool
		want    models.AccountType
	}{
		{"default type", in("10.01", ""), false, models.AccountChecking},
		{"savings", in("500", models.AccountSavings), false, models.AccountSavings},
		{"exactly ten", in("10.00", models.AccountCredit), true, ""},
		{"negative", in("-20", models.AccountCredit), true, ""},
		{"unknown type", in("20", "Brokerage"), true, ""},
		{"three decimals", in("10.004", ""), true, ""},
		{"trailing zero decimals", in("10.010", ""), false, models.AccountChecking},
		{"two decimals", in("999999999999.99", ""), false, models.AccountChecking},
		{"too large", in("1000000000000", ""), true, ""},
		{"too large and too precise", in("123456789012345.678", ""), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTransactionService(newFakeRepoManager())

			tx, err := s.Create(context.Background(), "alice", tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrorValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tx.AccountType)
			assert.Equal(t, "alice", tx.OwnerID)
			assert.Positive(t, tx.ID)
		})
	}
}

func TestTransactionCreate_StoreError(t *testing.T) {
	rm := newFakeRepoManager()
	rm.t.createErr = errors.New("db down")
	s := NewTransactionService(rm)

	_, err := s.Create(context.Background(), "alice", in("20", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestTransactions_OwnerScoped(t *testing.T) {
	rm := newFakeRepoManager()
	s := NewTransactionService(rm)
	ctx := context.Background()

	mine, err := s.Create(ctx, "alice", in("20", ""))
	require.NoError(t, err)
	theirs, err := s.Create(ctx, "bob", in("30", ""))
	require.NoError(t, err)

	list, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	got, err := s.Get(ctx, "alice", mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	_, err = s.Get(ctx, "alice", theirs.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = s.Update(ctx, "alice", theirs.ID, in("99", models.AccountCredit))
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = s.Delete(ctx, "alice", theirs.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	still, err := s.Get(ctx, "bob", theirs.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(still.Amount))
}

func TestTransactionUpdate(t *testing.T) {
	s := NewTransactionService(newFakeRepoManager())
	ctx := context.Background()

	tx, err := s.Create(ctx, "alice", in("20", models.AccountSavings))
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "alice", tx.ID, in("45.5", "")))

	got, err := s.Get(ctx, "alice", tx.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("45.5").Equal(got.Amount))
	assert.Equal(t, models.AccountChecking, got.AccountType)

	assert.ErrorIs(t, s.Update(ctx, "alice", tx.ID, in("5", "")), common.ErrorValidation)
	assert.ErrorIs(t, s.Update(ctx, "alice", 0, in("50", "")), common.ErrorValidation)
	assert.ErrorIs(t, s.Update(ctx, "alice", 999, in("50", "")), common.ErrorNotFound)
}

func TestTransactionDelete(t *testing.T) {
	s := NewTransactionService(newFakeRepoManager())
	ctx := context.Background()

	tx, err := s.Create(ctx, "alice", in("20", ""))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "alice", tx.ID))
	assert.ErrorIs(t, s.Delete(ctx, "alice", tx.ID), common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "alice", -1), common.ErrorValidation)
}

func TestTransactionGet_InvalidID(t *testing.T) {
	s := NewTransactionService(newFakeRepoManager())

	_, err := s.Get(context.Background(), "alice", 0)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestTransactionAdminOperations(t *testing.T) {
	s := NewTransactionService(newFakeRepoManager())
	ctx := context.Background()

	a, err := s.Create(ctx, "alice", in("20", ""))
	require.NoError(t, err)
	_, err = s.Create(ctx, "bob", in("30", ""))
	require.NoError(t, err)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteAny(ctx, a.ID))
	assert.ErrorIs(t, s.DeleteAny(ctx, a.ID), common.ErrorNotFound)
	assert.ErrorIs(t, s.DeleteAny(ctx, 0), common.ErrorValidation)

	all, err = s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
