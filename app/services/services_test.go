package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodexplorer/app/api"
	"github.com/shashiranjanraj/foodexplorer/app/models"
	"github.com/shashiranjanraj/foodexplorer/app/repositories"
	"github.com/shashiranjanraj/foodexplorer/app/services"
	"github.com/shashiranjanraj/foodexplorer/pkg/event"
	"github.com/shashiranjanraj/foodexplorer/pkg/kv"
	"github.com/shashiranjanraj/foodexplorer/pkg/notification"
	"github.com/shashiranjanraj/foodexplorer/pkg/testkit"
)

const apiURL = "http://api.test"

// env is one client wired against an in-memory store and a mocked API.
type env struct {
	store      *kv.Memory
	mt         *testkit.MockTransport
	rec        *notification.Recorder
	bus        *event.Bus
	client     *api.Client
	identities *repositories.IdentityRepository
	orders     *repositories.OrderRepository
	session    *services.SessionService
}

func newEnv(t *testing.T, stubs ...testkit.Stub) *env {
	t.Helper()
	e := &env{
		store:  kv.NewMemory(),
		mt:     testkit.NewMockTransport(stubs...),
		rec:    &notification.Recorder{},
		bus:    event.NewBus(),
		client: api.New(apiURL, 0),
	}
	testkit.Install(t, e.mt)

	e.identities = repositories.NewIdentityRepository(e.store)
	e.orders = repositories.NewOrderRepository(e.store)
	e.session = services.NewSessionService(e.client, e.identities, e.orders, notification.New(e.rec), e.bus)
	return e
}

// signedIn seeds a stored session for userID and restores it.
func (e *env) signedIn(t *testing.T, userID models.ID) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.identities.Save(ctx, models.User{ID: userID, Name: "Ana", Email: "ana@x.com"}, testkit.Token(t, string(userID), false)))
	require.NoError(t, e.session.Restore(ctx))
	require.True(t, e.session.Identity().Valid())
}

// cart writes the cached order.
func (e *env) cart(t *testing.T, order models.Order) {
	t.Helper()
	require.NoError(t, e.orders.Save(context.Background(), order))
}

func (e *env) cached(t *testing.T) models.Order {
	t.Helper()
	order, ok, err := e.orders.Find(context.Background())
	require.NoError(t, err)
	require.True(t, ok, "order cache is empty")
	return order
}

func (e *env) lastNotice(t *testing.T) notification.Notice {
	t.Helper()
	n, ok := e.rec.Last()
	require.True(t, ok, "no notification was shown")
	return n
}
