package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/dmitrijs2005/gophbank/internal/server/auth"
	"github.com/dmitrijs2005/gophbank/internal/server/models"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/principals"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/transactions"
	"github.com/shopspring/decimal"
)

// --- in-memory repositories ---

type fakePrincipalsRepo struct {
	mu   sync.Mutex
	rows map[string]models.Principal

	findErr   error
	updateErr error
}

func newFakePrincipalsRepo() *fakePrincipalsRepo {
	return &fakePrincipalsRepo{rows: map[string]models.Principal{}}
}

func (f *fakePrincipalsRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	p, ok := f.rows[identifier]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (f *fakePrincipalsRepo) FindByNationalID(ctx context.Context, nationalID string) (*models.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.rows {
		if p.NationalID == nationalID {
			return &p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakePrincipalsRepo) Insert(ctx context.Context, p *models.Principal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.Identifier == p.Identifier || r.Email == p.Email || r.NationalID == p.NationalID {
			return common.ErrorConflict
		}
	}
	p.CreatedAt = time.Now()
	f.rows[p.Identifier] = *p
	return nil
}

func (f *fakePrincipalsRepo) UpdateSecretHash(ctx context.Context, identifier, secretHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	p, ok := f.rows[identifier]
	if !ok {
		return common.ErrorNotFound
	}
	p.SecretHash = secretHash
	f.rows[identifier] = p
	return nil
}

func (f *fakePrincipalsRepo) List(ctx context.Context) ([]*models.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Principal{}
	for _, p := range f.rows {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out, nil
}

type fakeTransactionsRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Transaction

	createErr error
}

func newFakeTransactionsRepo() *fakeTransactionsRepo {
	return &fakeTransactionsRepo{rows: map[int64]models.Transaction{}}
}

func (f *fakeTransactionsRepo) Create(ctx context.Context, tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	tx.ID = f.nextID
	tx.CreatedAt = time.Now()
	f.rows[tx.ID] = *tx
	return nil
}

func (f *fakeTransactionsRepo) FindByID(ctx context.Context, id int64) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &tx, nil
}

func (f *fakeTransactionsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Transaction, error) {
	return f.filter(func(tx models.Transaction) bool { return tx.OwnerID == ownerID }), nil
}

func (f *fakeTransactionsRepo) ListAll(ctx context.Context) ([]*models.Transaction, error) {
	return f.filter(func(models.Transaction) bool { return true }), nil
}

func (f *fakeTransactionsRepo) filter(keep func(models.Transaction) bool) []*models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Transaction{}
	for _, tx := range f.rows {
		if keep(tx) {
			tx := tx
			out = append(out, &tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeTransactionsRepo) Update(ctx context.Context, id int64, amount decimal.Decimal, accountType models.AccountType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.rows[id]
	if !ok {
		return common.ErrorNotFound
	}
	tx.Amount, tx.AccountType = amount, accountType
	f.rows[id] = tx
	return nil
}

func (f *fakeTransactionsRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	p *fakePrincipalsRepo
	t *fakeTransactionsRepo

	txCalls int
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{p: newFakePrincipalsRepo(), t: newFakeTransactionsRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context) error                  { return nil }
func (m *fakeRepoManager) Principals(context.Context) principals.Repository     { return m.p }
func (m *fakeRepoManager) Transactions(context.Context) transactions.Repository { return m.t }
func (m *fakeRepoManager) Ping(context.Context) error                           { return nil }
func (m *fakeRepoManager) Close() error                                         { return nil }
func (m *fakeRepoManager) WithTx(ctx context.Context, fn func(tx repomanager.RepositoryManager) error) error {
	m.txCalls++
	return fn(m)
}

// --- helpers ---

func newTokenManager() *auth.TokenManager {
	key, err := auth.NewSigningKey()
	if err != nil {
		panic(err)
	}
	return auth.NewTokenManager(key)
}

func newPrincipalService(rm repomanager.RepositoryManager) *PrincipalService {
	return NewPrincipalService(rm, newTokenManager(), auth.SHA512Hasher{}, 30*time.Minute)
}

func johnDoe() Registration {
	return Registration{
		Identifier: "johnDoe",
		FirstName:  "John",
		LastName:   "Doe",
		Email:      "johnDoe@none.com",
		Password:   "Password",
		NationalID: "123456789",
	}
}
