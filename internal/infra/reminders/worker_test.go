package reminders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelbooking/internal/app/commands"
	notificationsapp "hotelbooking/internal/app/handlers/notifications"
	handlersupport "hotelbooking/internal/app/handlers/support"
	domainnotifications "hotelbooking/internal/domain/notifications"
	"hotelbooking/internal/infra/storage/memory"
)

func TestTickDispatchesDueReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	factory := memory.NewFactory()
	box := memory.NewOutbox()

	for id, at := range map[string]time.Time{"due": now.Add(-time.Minute), "later": now.Add(time.Hour)} {
		require.NoError(t, factory.NotificationsRepo.Save(ctx, &domainnotifications.Notification{
			ID:           domainnotifications.NotificationID(id),
			UserID:       "u-1",
			Type:         domainnotifications.TypeCheckInReminder,
			Status:       domainnotifications.StatusPending,
			ScheduledFor: at,
		}))
	}

	bus := commands.NewInMemoryBus()
	handler := &notificationsapp.DispatchDueHandler{
		UoWFactory: factory,
		Outbox:     box,
		Deps:       handlersupport.Deps{Now: func() time.Time { return now }},
	}
	commands.RegisterHandler[notificationsapp.DispatchDueCommand, notificationsapp.DispatchDueResult](bus, notificationsapp.DispatchDueCommand{}.Key(), handler)

	w := &Worker{Bus: bus}
	res, err := w.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, notificationsapp.DispatchDueResult{Sent: 1}, res)

	due, err := factory.NotificationsRepo.ByID(ctx, "due")
	require.NoError(t, err)
	assert.Equal(t, domainnotifications.StatusSent, due.Status)
	later, err := factory.NotificationsRepo.ByID(ctx, "later")
	require.NoError(t, err)
	assert.Equal(t, domainnotifications.StatusPending, later.Status)
	assert.Len(t, box.Pending(), 1)

	res, err = w.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Sent)
}

func TestRunRequiresBus(t *testing.T) {
	assert.ErrorIs(t, (&Worker{}).Run(context.Background()), ErrWorkerNotConfigured)
}
