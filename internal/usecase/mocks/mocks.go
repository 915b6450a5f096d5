package mocks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leadforge/backend/internal/domain"
	"github.com/leadforge/backend/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	UpdateCreditsFunc    func(ctx context.Context, tx usecase.Transaction, id string, credits int64, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores an account directly, bypassing any Func override.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.accounts[account.ID] = &cp
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *account
	m.accounts[account.ID] = &cp
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		cp := *acc
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) UpdateCredits(ctx context.Context, tx usecase.Transaction, id string, credits int64, updatedAt time.Time) error {
	if m.UpdateCreditsFunc != nil {
		return m.UpdateCreditsFunc(ctx, tx, id, credits, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Credits = credits
		acc.Version++
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		cp := *acc
		accounts = append(accounts, &cp)
	}
	return accounts, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns []*domain.CreditTransaction

	CreateFunc func(ctx context.Context, tx usecase.Transaction, txn *domain.CreditTransaction) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.CreditTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *txn
	m.txns = append(m.txns, &cp)
	return nil
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.CreditTransaction, error) {
	asc, _ := m.ListByUserAsc(ctx, userID)
	// most recent first
	var desc []*domain.CreditTransaction
	for i := len(asc) - 1; i >= 0; i-- {
		desc = append(desc, asc[i])
	}
	if offset >= len(desc) {
		return nil, nil
	}
	desc = desc[offset:]
	if len(desc) > limit {
		desc = desc[:limit]
	}
	return desc, nil
}

func (m *MockTransactionRepository) ListByUserAsc(ctx context.Context, userID string) ([]*domain.CreditTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CreditTransaction
	for _, txn := range m.txns {
		if txn.UserID == userID {
			cp := *txn
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.CreditTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CreditTransaction
	for i := len(m.txns) - 1; i >= 0; i-- {
		cp := *m.txns[i]
		out = append(out, &cp)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count returns the total number of stored transactions.
func (m *MockTransactionRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.txns)
}

// MockImportJobRepository is a mock implementation of ImportJobRepository.
type MockImportJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*domain.ImportJob

	CreateFunc   func(ctx context.Context, job *domain.ImportJob) error
	CompleteFunc func(ctx context.Context, id string, successCount, errorCount int, errs []domain.ImportError, completedAt time.Time) error
}

func NewMockImportJobRepository() *MockImportJobRepository {
	return &MockImportJobRepository{
		jobs: make(map[string]*domain.ImportJob),
	}
}

func (m *MockImportJobRepository) Create(ctx context.Context, job *domain.ImportJob) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, job)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *MockImportJobRepository) Complete(ctx context.Context, id string, successCount, errorCount int, errs []domain.ImportError, completedAt time.Time) error {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, id, successCount, errorCount, errs, completedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return domain.ErrImportJobNotFound
	}
	job.Status = domain.ImportStatusCompleted
	job.SuccessCount = successCount
	job.ErrorCount = errorCount
	job.Errors = errs
	job.CompletedAt = &completedAt
	return nil
}

func (m *MockImportJobRepository) GetByID(ctx context.Context, id string) (*domain.ImportJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if job, ok := m.jobs[id]; ok {
		cp := *job
		return &cp, nil
	}
	return nil, domain.ErrImportJobNotFound
}

func (m *MockImportJobRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.ImportJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ImportJob
	for _, job := range m.jobs {
		if job.UserID == userID {
			cp := *job
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Count returns the number of stored jobs.
func (m *MockImportJobRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}

// MockDealRepository is a mock implementation of DealRepository.
type MockDealRepository struct {
	mu    sync.RWMutex
	deals map[string]*domain.Deal
	order []string

	CreateFunc func(ctx context.Context, deal *domain.Deal) error
}

func NewMockDealRepository() *MockDealRepository {
	return &MockDealRepository{
		deals: make(map[string]*domain.Deal),
	}
}

func (m *MockDealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, deal)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *deal
	m.deals[deal.ID] = &cp
	m.order = append(m.order, deal.ID)
	return nil
}

func (m *MockDealRepository) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if deal, ok := m.deals[id]; ok {
		cp := *deal
		return &cp, nil
	}
	return nil, domain.ErrDealNotFound
}

func (m *MockDealRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Deal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Deal
	for i := len(m.order) - 1; i >= 0; i-- {
		deal := m.deals[m.order[i]]
		if deal.UserID == userID {
			cp := *deal
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockDealRepository) UpdateStage(ctx context.Context, id string, stage domain.DealStage, closedAt *time.Time, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	deal, ok := m.deals[id]
	if !ok {
		return domain.ErrDealNotFound
	}
	deal.Stage = stage
	deal.ClosedAt = closedAt
	deal.UpdatedAt = updatedAt
	return nil
}

// Count returns the number of stored deals.
func (m *MockDealRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.deals)
}

// MockTransactionManager serializes transactions with a mutex, emulating
// the store's per-key atomic read-modify-write discipline.
type MockTransactionManager struct {
	mu sync.Mutex

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	return &MockTransaction{release: m.mu.Unlock}, nil
}

// MockTransaction is handed out by MockTransactionManager. Commit and
// Rollback both release the manager's lock exactly once.
type MockTransaction struct {
	once    sync.Once
	release func()
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.done()
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.done()
	return nil
}

func (t *MockTransaction) done() {
	t.once.Do(func() {
		if t.release != nil {
			t.release()
		}
	})
}

// MockRetrier runs the operation once, passing its error through.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	counter atomic.Int64

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return fmt.Sprintf("id-%06d", m.counter.Add(1))
}

// MockNotifier records published events.
type MockNotifier struct {
	mu     sync.Mutex
	events []domain.ChangeEvent

	PublishFunc func(ctx context.Context, event domain.ChangeEvent) error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Publish(ctx context.Context, event domain.ChangeEvent) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of the published events.
func (m *MockNotifier) Events() []domain.ChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ChangeEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockDealSink is a mock implementation of DealSink.
type MockDealSink struct {
	mu    sync.Mutex
	leads []domain.NormalizedLead

	CreateFromLeadFunc func(ctx context.Context, userID string, lead domain.NormalizedLead) (*domain.Deal, error)
}

func NewMockDealSink() *MockDealSink {
	return &MockDealSink{}
}

func (m *MockDealSink) CreateFromLead(ctx context.Context, userID string, lead domain.NormalizedLead) (*domain.Deal, error) {
	if m.CreateFromLeadFunc != nil {
		return m.CreateFromLeadFunc(ctx, userID, lead)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = append(m.leads, lead)
	return &domain.Deal{
		ID:      fmt.Sprintf("deal-%06d", len(m.leads)),
		UserID:  userID,
		Company: lead.Company,
		Stage:   domain.StageProposalSent,
	}, nil
}

// Leads returns a copy of the accepted leads.
func (m *MockDealSink) Leads() []domain.NormalizedLead {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.NormalizedLead, len(m.leads))
	copy(out, m.leads)
	return out
}
