package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/schedly/internal/shared/domain"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/schedly/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/schedly/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type entryChanged struct {
	domain.BaseEvent
	Date string `json:"date"`
}

func newEvent(routingKey string) *entryChanged {
	return &entryChanged{
		BaseEvent: domain.NewBaseEvent(uuid.New(), "schedule_entry", routingKey),
		Date:      "2024-03-01",
	}
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []string
	payloads  [][]byte
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, routingKey)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func setupRepo(t *testing.T) (*SQLiteRepository, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return NewSQLiteRepository(db), db
}

func saveEvents(t *testing.T, repo Repository, events ...domain.DomainEvent) []*Message {
	t.Helper()
	msgs, err := NewMessages(events)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(context.Background(), msgs))
	return msgs
}

func TestNewMessage_WrapsEventInEnvelope(t *testing.T) {
	event := newEvent("schedules.entry.recorded")
	userID := uuid.New()
	event.Stamp(domain.EventMetadata{UserID: userID, CorrelationID: uuid.New()})

	msg, err := NewMessage(event)
	require.NoError(t, err)

	var envelope eventbus.ConsumedEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &envelope))
	assert.Equal(t, event.Header().EventID, envelope.EventID)
	assert.Equal(t, "schedules.entry.recorded", envelope.RoutingKey)
	assert.Equal(t, userID, envelope.Metadata.UserID)
	assert.JSONEq(t, `{"date":"2024-03-01"}`, string(envelope.Payload))
	assert.False(t, msg.IsPublished())
}

func TestProcessor_ProcessOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes pending messages in order", func(t *testing.T) {
		repo, _ := setupRepo(t)
		saveEvents(t, repo, newEvent("schedules.entry.recorded"), newEvent("schedules.entry.removed"))
		publisher := &recordingPublisher{}
		metrics := observability.NewInMemoryMetrics()
		p := NewProcessor(repo, publisher, DefaultProcessorConfig(), nil, metrics)

		n, err := p.ProcessOnce(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"schedules.entry.recorded", "schedules.entry.removed"}, publisher.published)
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricEventsPublished,
			observability.T("routing_key", "schedules.entry.removed")))

		pending, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("schedules a retry on publish failure", func(t *testing.T) {
		repo, db := setupRepo(t)
		saveEvents(t, repo, newEvent("schedules.entry.updated"))
		p := NewProcessor(repo, &recordingPublisher{err: errors.New("broker down")}, DefaultProcessorConfig(), nil, nil)

		n, err := p.ProcessOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		var retries int
		var lastError string
		require.NoError(t, db.QueryRow(`SELECT retry_count, last_error FROM outbox`).Scan(&retries, &lastError))
		assert.Equal(t, 1, retries)
		assert.Equal(t, "broker down", lastError)

		// The retry is in the future, so the message is not picked up again yet.
		pending, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("dead-letters after max retries", func(t *testing.T) {
		repo, db := setupRepo(t)
		saveEvents(t, repo, newEvent("schedules.entry.updated"))
		cfg := DefaultProcessorConfig()
		cfg.MaxRetries = 1
		p := NewProcessor(repo, &recordingPublisher{err: errors.New("broker down")}, cfg, nil, nil)

		_, err := p.ProcessOnce(ctx)
		require.NoError(t, err)

		var reason sql.NullString
		require.NoError(t, db.QueryRow(`SELECT dead_letter_reason FROM outbox`).Scan(&reason))
		assert.Equal(t, "broker down", reason.String)
	})
}

func TestProcessor_StartStop(t *testing.T) {
	repo, _ := setupRepo(t)
	saveEvents(t, repo, newEvent("schedules.entry.recorded"))
	publisher := &recordingPublisher{}
	cfg := DefaultProcessorConfig()
	cfg.PollInterval = 5 * time.Millisecond
	p := NewProcessor(repo, publisher, cfg, nil, nil)

	p.Start(context.Background())
	p.Start(context.Background())
	assert.True(t, p.IsRunning())

	assert.Eventually(t, func() bool {
		publisher.mu.Lock()
		defer publisher.mu.Unlock()
		return len(publisher.published) == 1
	}, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop()
	assert.False(t, p.IsRunning())
}

func TestProcessor_RetryBackoff(t *testing.T) {
	p := NewProcessor(nil, nil, ProcessorConfig{
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  5 * time.Second,
	}, nil, nil)

	assert.Equal(t, time.Second, p.retryBackoff(1))
	assert.Equal(t, 2*time.Second, p.retryBackoff(2))
	assert.Equal(t, 4*time.Second, p.retryBackoff(3))
	assert.Equal(t, 5*time.Second, p.retryBackoff(4))
	assert.Equal(t, 5*time.Second, p.retryBackoff(40))
}

func TestSQLiteRepository_DeleteOld(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	msgs := saveEvents(t, repo, newEvent("schedules.entry.recorded"), newEvent("schedules.entry.recorded"))
	require.NoError(t, repo.MarkPublished(ctx, msgs[0].ID))

	deleted, err := repo.DeleteOld(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, msgs[1].EventID, pending[0].EventID)
}
