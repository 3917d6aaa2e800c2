package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/domain/testhelpers"
	"riobot/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ticketFixture struct {
	svc       interfaces.TicketLifecycle
	platform  *testhelpers.MockPlatform
	scheduler *testhelpers.ManualScheduler
	recorder  *testhelpers.EventRecorder
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	store, recorder := newTestStore(t)
	platform := new(testhelpers.MockPlatform)
	platform.On("SelfID").Return(TestBotID).Maybe()
	scheduler := &testhelpers.ManualScheduler{}
	return &ticketFixture{
		svc:       NewTicketLifecycle(testConfig(), store, platform, scheduler),
		platform:  platform,
		scheduler: scheduler,
		recorder:  recorder,
	}
}

func (f *ticketFixture) open(t *testing.T, channelID int64) (*entities.SupportTicket, error) {
	t.Helper()
	f.platform.On("CreateChannel", mock.Anything, TestGuildID, mock.MatchedBy(func(spec entities.ChannelSpec) bool {
		return spec.Type == entities.ChannelTypeText && spec.ParentID == testConfig().TicketCategoryID
	})).Return(channelID, nil).Once()
	return f.svc.Open(context.Background(), interfaces.OpenTicketRequest{
		GuildID:       TestGuildID,
		RequesterID:   TestUser1ID,
		RequesterName: "Alice B.",
		Category:      entities.TicketCategorySupport,
	})
}

func TestTicketChannelName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Alice":     "ticket-alice",
		"Jean Paul": "ticket-jean-paul",
		"🔥🔥":        "ticket-membre",
		"Zoé_42":    "ticket-zoé-42",
		"--weird--": "ticket-weird",
	}
	for in, want := range tests {
		assert.Equal(t, want, ticketChannelName(in), in)
	}
}

func TestTicketLifecycle_SingleOpenTicketPerRequester(t *testing.T) {
	t.Parallel()

	f := newTicketFixture(t)
	ctx := context.Background()

	ticket, err := f.open(t, 8001)
	require.NoError(t, err)
	assert.Equal(t, entities.TicketStatusOpen, ticket.Status)

	_, err = f.svc.Open(ctx, interfaces.OpenTicketRequest{
		GuildID: TestGuildID, RequesterID: TestUser1ID, RequesterName: "Alice", Category: entities.TicketCategoryReport,
	})
	require.ErrorIs(t, err, entities.ErrDuplicateTicket)

	_, err = f.svc.RequestClose(ctx, 8001, interfaces.TicketActor{UserID: TestUser1ID})
	require.NoError(t, err)

	f.platform.On("DeleteChannel", mock.Anything, int64(8001)).Return(nil).Once()
	assert.Equal(t, 1, f.scheduler.RunAll(ctx))

	_, err = f.open(t, 8002)
	require.NoError(t, err)
	assert.Len(t, f.recorder.OfType(events.EventTypeTicketDeleted), 1)
	f.platform.AssertExpectations(t)
}

func TestTicketLifecycle_ConcurrentOpenSameRequester(t *testing.T) {
	t.Parallel()

	f := newTicketFixture(t)
	f.platform.On("CreateChannel", mock.Anything, TestGuildID, mock.Anything).Return(int64(8101), nil).Once()

	const attempts = 20
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		opened int
		dup    int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Open(context.Background(), interfaces.OpenTicketRequest{
				GuildID:       TestGuildID,
				RequesterID:   TestUser1ID,
				RequesterName: "Alice",
				Category:      entities.TicketCategorySupport,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				opened++
			case errors.Is(err, entities.ErrDuplicateTicket):
				dup++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, opened)
	assert.Equal(t, attempts-1, dup)
	assert.Len(t, f.recorder.OfType(events.EventTypeTicketOpened), 1)
	f.platform.AssertExpectations(t)
}

func TestTicketLifecycle_InvalidCategory(t *testing.T) {
	t.Parallel()

	f := newTicketFixture(t)
	_, err := f.svc.Open(context.Background(), interfaces.OpenTicketRequest{
		GuildID: TestGuildID, RequesterID: TestUser1ID, Category: "billing",
	})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestTicketLifecycle_Claim(t *testing.T) {
	t.Parallel()

	f := newTicketFixture(t)
	ctx := context.Background()
	_, err := f.open(t, 8001)
	require.NoError(t, err)

	_, err = f.svc.Claim(ctx, 8001, interfaces.TicketActor{UserID: TestUser2ID})
	require.ErrorIs(t, err, entities.ErrForbidden)

	ticket, err := f.svc.Claim(ctx, 8001, interfaces.TicketActor{UserID: TestUser2ID, IsStaff: true})
	require.NoError(t, err)
	assert.Equal(t, entities.TicketStatusClaimed, ticket.Status)
	require.NotNil(t, ticket.ClaimedBy)
	assert.Equal(t, TestUser2ID, *ticket.ClaimedBy)

	_, err = f.svc.Claim(ctx, 8001, interfaces.TicketActor{UserID: TestUser3ID, IsStaff: true})
	require.ErrorIs(t, err, entities.ErrAlreadyClaimed)

	_, err = f.svc.Claim(ctx, 9999, interfaces.TicketActor{UserID: TestUser3ID, IsStaff: true})
	require.ErrorIs(t, err, entities.ErrNotFound)
}

func TestTicketLifecycle_RequestClosePermissions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		actor   interfaces.TicketActor
		wantErr error
	}{
		{name: "requester", actor: interfaces.TicketActor{UserID: TestUser1ID}},
		{name: "staff", actor: interfaces.TicketActor{UserID: TestUser2ID, IsStaff: true}},
		{name: "owner role", actor: interfaces.TicketActor{UserID: TestUser2ID, HasOwnerRole: true}},
		{name: "bot owner", actor: interfaces.TicketActor{UserID: testConfig().OwnerID}},
		{name: "bystander", actor: interfaces.TicketActor{UserID: TestUser3ID}, wantErr: entities.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newTicketFixture(t)
			_, err := f.open(t, 8001)
			require.NoError(t, err)

			ticket, err := f.svc.RequestClose(context.Background(), 8001, tt.actor)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.scheduler.Tasks())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entities.TicketStatusClosing, ticket.Status)
			tasks := f.scheduler.Tasks()
			require.Len(t, tasks, 1)
			assert.Equal(t, testConfig().TicketCloseDelay, tasks[0].Delay)

			_, err = f.svc.RequestClose(context.Background(), 8001, tt.actor)
			require.ErrorIs(t, err, entities.ErrTicketClosing)
		})
	}
}

func TestTicketLifecycle_FinalizeToleratesMissingChannel(t *testing.T) {
	t.Parallel()

	f := newTicketFixture(t)
	ctx := context.Background()
	_, err := f.open(t, 8001)
	require.NoError(t, err)
	_, err = f.svc.RequestClose(ctx, 8001, interfaces.TicketActor{UserID: TestUser1ID})
	require.NoError(t, err)

	f.platform.On("DeleteChannel", mock.Anything, int64(8001)).Return(entities.ErrPlatformNotFound).Once()
	require.NoError(t, f.svc.Finalize(ctx, 8001))

	// a second firing finds nothing to do
	require.NoError(t, f.svc.Finalize(ctx, 8001))
	f.platform.AssertExpectations(t)
}

func TestTicketLifecycle_FinalizeSkipsOpenTicket(t *testing.T) {
	t.Parallel()

	f := newTicketFixture(t)
	_, err := f.open(t, 8001)
	require.NoError(t, err)

	require.NoError(t, f.svc.Finalize(context.Background(), 8001))
	f.platform.AssertNotCalled(t, "DeleteChannel", mock.Anything, mock.Anything)
}

func TestTicketLifecycle_ResumePending(t *testing.T) {
	t.Parallel()

	f := newTicketFixture(t)
	ctx := context.Background()
	_, err := f.open(t, 8001)
	require.NoError(t, err)

	svc := f.svc.(*ticketLifecycle)
	closedAt := time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return closedAt }
	_, err = svc.RequestClose(ctx, 8001, interfaces.TicketActor{UserID: TestUser1ID})
	require.NoError(t, err)

	// a restart two seconds later drops the in-memory timer
	restarted := &testhelpers.ManualScheduler{}
	svc.scheduler = restarted
	svc.now = func() time.Time { return closedAt.Add(2 * time.Second) }
	require.NoError(t, svc.ResumePending(ctx))

	tasks := restarted.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, testConfig().TicketCloseDelay-2*time.Second, tasks[0].Delay)
}

func TestTicketLifecycle_Forget(t *testing.T) {
	t.Parallel()

	f := newTicketFixture(t)
	ctx := context.Background()
	_, err := f.open(t, 8001)
	require.NoError(t, err)

	require.NoError(t, f.svc.Forget(ctx, 8001))
	require.NoError(t, f.svc.Forget(ctx, 8001))

	_, err = f.open(t, 8002)
	require.NoError(t, err)
}
