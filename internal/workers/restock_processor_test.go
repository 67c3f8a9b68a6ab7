package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/kiranakart/kirana-be/internal/adapters/redis_adapter"
	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/workers"
	"github.com/kiranakart/kirana-be/test/helpers"
	"github.com/kiranakart/kirana-be/test/mocks"
)

type restockFixture struct {
	processor     *workers.RestockProcessor
	mr            *miniredis.Miniredis
	subscriptions *mocks.MockSubscriptionRepository
	users         *mocks.MockUserRepository
	enqueuer      *mocks.MockTaskEnqueuer
}

func newRestockFixture(t *testing.T) *restockFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := redis_a.NewCache(client, time.Hour, helpers.TestLogger())

	subscriptions := mocks.NewMockSubscriptionRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)
	enqueuer := mocks.NewMockTaskEnqueuer(ctrl)

	return &restockFixture{
		processor:     workers.NewRestockProcessor(cache, subscriptions, users, enqueuer, helpers.TestLogger()),
		mr:            mr,
		subscriptions: subscriptions,
		users:         users,
		enqueuer:      enqueuer,
	}
}

func restockTask(t *testing.T, event *ports.RestockEvent) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(event)
	require.NoError(t, err)
	return asynq.NewTask(ports.TaskRestockFanout, b)
}

func testEvent(itemID uuid.UUID) *ports.RestockEvent {
	return &ports.RestockEvent{
		EventID:     "ev-" + itemID.String()[:8],
		ItemID:      itemID,
		StoreID:     uuid.New(),
		ItemName:    "Aashirvaad Atta 5kg",
		OldQuantity: 0,
		NewQuantity: 40,
	}
}

func TestRestockProcessor_FansOutToSubscribers(t *testing.T) {
	f := newRestockFixture(t)
	ctx := context.Background()
	itemID := uuid.New()
	event := testEvent(itemID)

	alice := &domain.User{ID: uuid.New(), Email: "alice@example.com", Name: "Alice"}
	bala := &domain.User{ID: uuid.New(), Email: "bala@example.com", Name: "Bala"}

	f.subscriptions.EXPECT().FindByItem(gomock.Any(), itemID).Return([]domain.Subscription{
		{ItemID: itemID, UserID: alice.ID},
		{ItemID: itemID, UserID: bala.ID},
	}, nil)

	f.users.EXPECT().FindByID(gomock.Any(), alice.ID).Return(alice, nil)
	f.users.EXPECT().FindByID(gomock.Any(), bala.ID).Return(bala, nil)

	var sent []*ports.EmailMessage
	f.enqueuer.EXPECT().EnqueueEmail(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *ports.EmailMessage) error {
			sent = append(sent, msg)
			return nil
		}).Times(2)

	err := f.processor.ProcessRestockFanout(ctx, restockTask(t, event))
	require.NoError(t, err)

	require.Len(t, sent, 2)
	assert.Equal(t, "Item Restocked!", sent[0].Subject)
	assert.Equal(t, "Aashirvaad Atta 5kg is now back in stock!", sent[0].Text)
	assert.Contains(t, sent[0].HTML, "Aashirvaad Atta 5kg is now back in stock!")
	assert.Contains(t, sent[0].HTML, "Current quantity: 40")
	assert.ElementsMatch(t, []string{"alice@example.com", "bala@example.com"},
		[]string{sent[0].To, sent[1].To})

	// The event marker is left behind to absorb redeliveries
	assert.True(t, f.mr.Exists("restock:processed:"+event.EventID))
}

func TestRestockProcessor_DuplicateEventSkipped(t *testing.T) {
	f := newRestockFixture(t)
	ctx := context.Background()
	event := testEvent(uuid.New())

	// First delivery fans out normally
	f.subscriptions.EXPECT().FindByItem(gomock.Any(), event.ItemID).Return(nil, nil)
	require.NoError(t, f.processor.ProcessRestockFanout(ctx, restockTask(t, event)))

	// Redelivery of the same event id must not touch the repositories
	err := f.processor.ProcessRestockFanout(ctx, restockTask(t, event))
	require.NoError(t, err)
}

func TestRestockProcessor_SubscriberLookupFailureReleasesMarker(t *testing.T) {
	f := newRestockFixture(t)
	ctx := context.Background()
	event := testEvent(uuid.New())

	f.subscriptions.EXPECT().FindByItem(gomock.Any(), event.ItemID).
		Return(nil, errors.New("connection refused"))

	err := f.processor.ProcessRestockFanout(ctx, restockTask(t, event))
	require.Error(t, err)

	// The marker is released so the asynq retry is processed, not skipped
	assert.False(t, f.mr.Exists("restock:processed:"+event.EventID))

	f.subscriptions.EXPECT().FindByItem(gomock.Any(), event.ItemID).Return(nil, nil)
	require.NoError(t, f.processor.ProcessRestockFanout(ctx, restockTask(t, event)))
}

func TestRestockProcessor_EmailFailureDoesNotFailFanout(t *testing.T) {
	f := newRestockFixture(t)
	ctx := context.Background()
	itemID := uuid.New()
	event := testEvent(itemID)

	alice := &domain.User{ID: uuid.New(), Email: "alice@example.com", Name: "Alice"}
	bala := &domain.User{ID: uuid.New(), Email: "bala@example.com", Name: "Bala"}

	f.subscriptions.EXPECT().FindByItem(gomock.Any(), itemID).Return([]domain.Subscription{
		{ItemID: itemID, UserID: alice.ID},
		{ItemID: itemID, UserID: bala.ID},
	}, nil)
	f.users.EXPECT().FindByID(gomock.Any(), alice.ID).Return(alice, nil)
	f.users.EXPECT().FindByID(gomock.Any(), bala.ID).Return(bala, nil)

	gomock.InOrder(
		f.enqueuer.EXPECT().EnqueueEmail(gomock.Any(), gomock.Any()).Return(errors.New("queue full")),
		f.enqueuer.EXPECT().EnqueueEmail(gomock.Any(), gomock.Any()).Return(nil),
	)

	err := f.processor.ProcessRestockFanout(ctx, restockTask(t, event))
	require.NoError(t, err)
}

func TestRestockProcessor_SkipsSubscribersWithoutAccount(t *testing.T) {
	f := newRestockFixture(t)
	ctx := context.Background()
	itemID := uuid.New()
	event := testEvent(itemID)

	ghost := uuid.New()
	f.subscriptions.EXPECT().FindByItem(gomock.Any(), itemID).Return([]domain.Subscription{
		{ItemID: itemID, UserID: ghost},
	}, nil)
	f.users.EXPECT().FindByID(gomock.Any(), ghost).Return(nil, nil)

	err := f.processor.ProcessRestockFanout(ctx, restockTask(t, event))
	require.NoError(t, err)
}

func TestRestockProcessor_DownwardChangeIgnored(t *testing.T) {
	f := newRestockFixture(t)
	ctx := context.Background()

	event := testEvent(uuid.New())
	event.OldQuantity = 40
	event.NewQuantity = 12

	// No repository or enqueuer expectations: a sale-direction change must
	// not fan out, and must not burn the event marker either.
	err := f.processor.ProcessRestockFanout(ctx, restockTask(t, event))
	require.NoError(t, err)
	assert.False(t, f.mr.Exists("restock:processed:"+event.EventID))
}

func TestRestockProcessor_SkipsSubscriberWithoutEmail(t *testing.T) {
	f := newRestockFixture(t)
	ctx := context.Background()
	itemID := uuid.New()
	event := testEvent(itemID)

	noEmail := &domain.User{ID: uuid.New(), Name: "Chitra"}
	bala := &domain.User{ID: uuid.New(), Email: "bala@example.com", Name: "Bala"}

	f.subscriptions.EXPECT().FindByItem(gomock.Any(), itemID).Return([]domain.Subscription{
		{ItemID: itemID, UserID: noEmail.ID},
		{ItemID: itemID, UserID: bala.ID},
	}, nil)
	f.users.EXPECT().FindByID(gomock.Any(), noEmail.ID).Return(noEmail, nil)
	f.users.EXPECT().FindByID(gomock.Any(), bala.ID).Return(bala, nil)

	f.enqueuer.EXPECT().EnqueueEmail(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *ports.EmailMessage) error {
			assert.Equal(t, "bala@example.com", msg.To)
			return nil
		})

	err := f.processor.ProcessRestockFanout(ctx, restockTask(t, event))
	require.NoError(t, err)
}

func TestRestockProcessor_BadPayloadSkipsRetry(t *testing.T) {
	f := newRestockFixture(t)

	task := asynq.NewTask(ports.TaskRestockFanout, []byte("{not json"))
	err := f.processor.ProcessRestockFanout(context.Background(), task)

	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestRestockProcessor_MissingEventIDSkipsRetry(t *testing.T) {
	f := newRestockFixture(t)

	event := testEvent(uuid.New())
	event.EventID = ""

	err := f.processor.ProcessRestockFanout(context.Background(), restockTask(t, event))

	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
