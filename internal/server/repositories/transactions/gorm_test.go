package transactions_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/server/config"
	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/transactions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, owners ...string) transactions.Repository {
	t.Helper()
	ctx := context.Background()
	m, err := repomanager.Open(ctx, config.DriverSQLite, filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, m.RunMigrations(ctx))

	for i, o := range owners {
		nid := string(rune('1'+i)) + "00000000"
		require.NoError(t, m.Principals(ctx).Insert(ctx, &models.Principal{
			Identifier: o, FirstName: o, LastName: o, Email: o + "@none.com",
			SecretHash: "h", NationalID: nid,
		}))
	}
	return m.Transactions(ctx)
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateAndFind(t *testing.T) {
	repo := newRepo(t, "alice")
	ctx := context.Background()

	tx := &models.Transaction{Amount: amount("10.01"), AccountType: models.AccountSavings, OwnerID: "alice"}
	require.NoError(t, repo.Create(ctx, tx))
	assert.Positive(t, tx.ID)

	got, err := repo.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, amount("10.01").Equal(got.Amount), got.Amount.String())
	assert.Equal(t, models.AccountSavings, got.AccountType)
	assert.Equal(t, "alice", got.OwnerID)

	_, err = repo.FindByID(ctx, tx.ID+100)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate_RejectsSmallAmount(t *testing.T) {
	repo := newRepo(t, "alice")

	err := repo.Create(context.Background(), &models.Transaction{Amount: amount("10"), AccountType: models.AccountChecking, OwnerID: "alice"})
	assert.Error(t, err)
}

func TestListByOwnerAndAll(t *testing.T) {
	repo := newRepo(t, "alice", "bob")
	ctx := context.Background()

	for _, o := range []string{"alice", "bob", "alice"} {
		require.NoError(t, repo.Create(ctx, &models.Transaction{Amount: amount("20"), AccountType: models.AccountChecking, OwnerID: o}))
	}

	mine, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Less(t, mine[0].ID, mine[1].ID)

	none, err := repo.ListByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdate(t *testing.T) {
	repo := newRepo(t, "alice")
	ctx := context.Background()

	tx := &models.Transaction{Amount: amount("20"), AccountType: models.AccountChecking, OwnerID: "alice"}
	require.NoError(t, repo.Create(ctx, tx))

	require.NoError(t, repo.Update(ctx, tx.ID, amount("99.50"), models.AccountCredit))

	got, err := repo.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, amount("99.5").Equal(got.Amount))
	assert.Equal(t, models.AccountCredit, got.AccountType)

	assert.ErrorIs(t, repo.Update(ctx, 999, amount("20"), models.AccountCredit), common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo := newRepo(t, "alice")
	ctx := context.Background()

	tx := &models.Transaction{Amount: amount("20"), AccountType: models.AccountChecking, OwnerID: "alice"}
	require.NoError(t, repo.Create(ctx, tx))

	require.NoError(t, repo.Delete(ctx, tx.ID))
	_, err := repo.FindByID(ctx, tx.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, tx.ID), common.ErrorNotFound)
}
