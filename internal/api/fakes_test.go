package api

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/bulatsharif/trading-api/internal/domain"
	"github.com/bulatsharif/trading-api/internal/service/auth"
	"github.com/bulatsharif/trading-api/internal/store"
	"github.com/bulatsharif/trading-api/internal/task"
)

// In-memory fakes for handler tests. Each fake implements just enough of
// its interface to drive the handlers under test.

type fakeUserStore struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*domain.User
	byEmail   map[string]*domain.User
	createErr error
	getErr    error
	// getErrOnce makes the next lookup fail once, then succeed. Used to
	// exercise the retry path.
	getErrOnce error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (s *fakeUserStore) add(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	if _, exists := s.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	// Mirror the real store: the plaintext never survives Create.
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErrOnce != nil {
		err := s.getErrOnce
		s.getErrOnce = nil
		return nil, err
	}
	if s.getErr != nil {
		return nil, s.getErr
	}
	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	user, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

type fakeRoleStore struct {
	roles map[int64]*domain.Role
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{roles: make(map[int64]*domain.Role)}
}

func (s *fakeRoleStore) Create(ctx context.Context, role *domain.Role) error {
	role.ID = int64(len(s.roles) + 1)
	s.roles[role.ID] = role
	return nil
}

func (s *fakeRoleStore) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	role, ok := s.roles[id]
	if !ok {
		return nil, store.ErrRoleNotFound
	}
	return role, nil
}

func (s *fakeRoleStore) Delete(ctx context.Context, id int64) error {
	if _, ok := s.roles[id]; !ok {
		return store.ErrRoleNotFound
	}
	delete(s.roles, id)
	return nil
}

type fakeOperationStore struct {
	mu         sync.Mutex
	operations []domain.Operation
	listErr    error
	// listErrOnce fails the next call only, for retry tests.
	listErrOnce error
	calls       int
}

func (s *fakeOperationStore) ListByType(ctx context.Context, operationType string) ([]domain.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.listErrOnce != nil {
		err := s.listErrOnce
		s.listErrOnce = nil
		return nil, err
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	matched := make([]domain.Operation, 0)
	for _, op := range s.operations {
		if op.Type == operationType {
			matched = append(matched, op)
		}
	}
	return matched, nil
}

func (s *fakeOperationStore) Create(ctx context.Context, op *domain.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	op.ID = int64(len(s.operations) + 1)
	s.operations = append(s.operations, *op)
	return nil
}

type fakeTradeStore struct {
	mu        sync.Mutex
	trades    []domain.Trade
	createErr error
	listErr   error
}

func (s *fakeTradeStore) CreateBatch(ctx context.Context, trades []domain.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, trade := range trades {
		trade.ID = int64(len(s.trades) + 1)
		s.trades = append(s.trades, trade)
	}
	return nil
}

func (s *fakeTradeStore) List(ctx context.Context) ([]domain.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.Trade(nil), s.trades...), nil
}

func (s *fakeTradeStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, trade := range s.trades {
		if trade.UserID.String() == userID {
			count++
		}
	}
	return count, nil
}

type fakeJWTService struct {
	token       string
	generateErr error
	claims      *auth.Claims
	validateErr error
}

func (s *fakeJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return s.token, nil
}

func (s *fakeJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.claims, nil
}

type fakePasswordVerifier struct {
	compareErr error
}

func (v *fakePasswordVerifier) Compare(hashedPassword, password string) error {
	return v.compareErr
}

type fakeSubmitter struct {
	mu        sync.Mutex
	submitted []task.Task
	submitErr error
}

func (s *fakeSubmitter) Submit(ctx context.Context, t task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitErr != nil {
		return s.submitErr
	}
	s.submitted = append(s.submitted, t)
	return nil
}

func (s *fakeSubmitter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.submitted)
}

var (
	_ store.UserStore       = (*fakeUserStore)(nil)
	_ store.RoleStore       = (*fakeRoleStore)(nil)
	_ store.OperationStore  = (*fakeOperationStore)(nil)
	_ store.TradeStore      = (*fakeTradeStore)(nil)
	_ auth.JWTService       = (*fakeJWTService)(nil)
	_ auth.PasswordVerifier = (*fakePasswordVerifier)(nil)
	_ TaskSubmitter         = (*fakeSubmitter)(nil)
)
