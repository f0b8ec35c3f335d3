package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulatsharif/trading-api/internal/domain"
	"github.com/bulatsharif/trading-api/internal/email"
	"github.com/bulatsharif/trading-api/internal/store"
)

// fakeSender records sent reports.
type fakeSender struct {
	mu      sync.Mutex
	sent    []email.DashboardReport
	to      []string
	sendErr error
}

func (s *fakeSender) SendDashboardReport(ctx context.Context, to string, report email.DashboardReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, report)
	s.to = append(s.to, to)
	return nil
}

// fakeTradeStore serves a fixed trade count.
type fakeTradeStore struct {
	count    int64
	countErr error
}

func (s *fakeTradeStore) CreateBatch(ctx context.Context, trades []domain.Trade) error { return nil }
func (s *fakeTradeStore) List(ctx context.Context) ([]domain.Trade, error)             { return nil, nil }

func (s *fakeTradeStore) CountByUser(ctx context.Context, userID string) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.count, nil
}

func TestReportEmailTaskExecute(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	trades := &fakeTradeStore{count: 7}

	task, err := NewReportEmailTask(uuid.New(), "trader", "trader@example.com", sender, trades, slog.Default())
	require.NoError(t, err)

	require.NoError(t, task.Execute(context.Background()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "trader@example.com", sender.to[0])
	assert.Equal(t, "trader", sender.sent[0].Username)
	assert.Equal(t, int64(7), sender.sent[0].TradeCount)
	assert.False(t, sender.sent[0].GeneratedAt.IsZero())
}

func TestReportEmailTaskSendsWithoutTradeCount(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	trades := &fakeTradeStore{countErr: store.ErrUnavailable}

	task, err := NewReportEmailTask(uuid.New(), "trader", "trader@example.com", sender, trades, slog.Default())
	require.NoError(t, err)

	require.NoError(t, task.Execute(context.Background()))
	require.Len(t, sender.sent, 1)
	assert.Zero(t, sender.sent[0].TradeCount)
}

func TestReportEmailTaskPropagatesDeliveryFailure(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{sendErr: errors.New("smtp rejected")}

	task, err := NewReportEmailTask(uuid.New(), "trader", "trader@example.com", sender, &fakeTradeStore{}, slog.Default())
	require.NoError(t, err)

	assert.Error(t, task.Execute(context.Background()))
}

func TestNewReportEmailTaskValidation(t *testing.T) {
	t.Parallel()

	_, err := NewReportEmailTask(uuid.New(), "trader", "trader@example.com", nil, &fakeTradeStore{}, slog.Default())
	assert.Error(t, err, "sender is required")

	_, err = NewReportEmailTask(uuid.New(), "trader", "", &fakeSender{}, &fakeTradeStore{}, slog.Default())
	assert.Error(t, err, "recipient is required")
}

func TestFactoryRehydrateRestoresExecution(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	factory := NewReportEmailTaskFactory(sender, &fakeTradeStore{count: 2}, slog.Default())

	original, err := factory.CreateTask(uuid.New(), "trader", "trader@example.com")
	require.NoError(t, err)

	execute, err := factory.Rehydrate(TaskTypeReportEmail, original.Payload())
	require.NoError(t, err)

	require.NoError(t, execute(context.Background()))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "trader", sender.sent[0].Username)
	assert.Equal(t, int64(2), sender.sent[0].TradeCount)
}

func TestFactoryRehydrateRejectsUnknownType(t *testing.T) {
	t.Parallel()

	factory := NewReportEmailTaskFactory(&fakeSender{}, &fakeTradeStore{}, slog.Default())

	_, err := factory.Rehydrate("unknown_type", []byte("{}"))
	assert.Error(t, err)
}

var _ store.TradeStore = (*fakeTradeStore)(nil)
