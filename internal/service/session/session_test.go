package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/internal/metrics"
	"github.com/sandevgo/shopdesk/internal/service/catalog"
	"github.com/sandevgo/shopdesk/internal/service/format"
	"github.com/sandevgo/shopdesk/internal/service/session"
	"github.com/sandevgo/shopdesk/internal/storage/memory"
	"github.com/sandevgo/shopdesk/internal/storage/sqlite"
	"github.com/sandevgo/shopdesk/internal/storage/sqlite/seed"
	driver "github.com/sandevgo/shopdesk/pkg/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	mu     sync.Mutex
	intent core.Intent
	err    error
	calls  int
	recent []core.Message
}

func (f *fakeClassifier) Classify(_ context.Context, recent []core.Message) (core.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.recent = recent
	return f.intent, f.err
}

// fakePlanner replays scripted plans; with an empty script it echoes a text reply.
type fakePlanner struct {
	mu      sync.Mutex
	script  []core.Plan
	err     error
	block   bool
	calls   int
	intents []core.Intent
}

func (f *fakePlanner) Plan(ctx context.Context, history []core.Message, intent core.Intent, tools []core.Tool) (core.Plan, error) {
	if f.block {
		<-ctx.Done()
		return core.Plan{}, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.intents = append(f.intents, intent)

	if f.err != nil {
		return core.Plan{}, f.err
	}
	if len(f.script) == 0 {
		return core.Plan{Text: fmt.Sprintf("reply %d", f.calls)}, nil
	}
	next := f.script[0]
	f.script = f.script[1:]
	return next, nil
}

func (f *fakePlanner) push(name string, args map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = append(f.script, core.Plan{Action: &core.ActionCall{Name: name, Arguments: args}})
}

type env struct {
	repo       *sqlite.CatalogRepo
	classifier *fakeClassifier
	planner    *fakePlanner
	manager    *session.Manager
	handle     *session.Handle
}

func newEnv(t *testing.T, opts ...session.Option) *env {
	t.Helper()
	return newEnvWithStore(t, memory.NewSessionStore(), opts...)
}

func newEnvWithStore(t *testing.T, store core.SessionStore, opts ...session.Option) *env {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.NewDB(ctx, driver.DriverPure, driver.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, seed.Seed(ctx, db, false))

	e := &env{
		repo:       sqlite.NewCatalogRepo(db),
		classifier: &fakeClassifier{intent: core.IntentGeneral},
		planner:    &fakePlanner{},
	}

	opts = append([]session.Option{session.WithMetrics(metrics.NewRecorder())}, opts...)
	engine := session.NewEngine(e.classifier, e.planner, catalog.New(e.repo), opts...)
	e.manager = session.NewManager(engine, store)

	e.handle, err = e.manager.GetOrCreate(ctx, "test")
	require.NoError(t, err)
	return e
}

func (e *env) submit(t *testing.T, text string) string {
	t.Helper()
	reply, err := e.handle.Submit(context.Background(), text)
	require.NoError(t, err)
	e.assertInvariant(t)
	return reply
}

func (e *env) state(t *testing.T) *core.SessionState {
	t.Helper()
	state, err := e.handle.State(context.Background())
	require.NoError(t, err)
	return state
}

func (e *env) assertInvariant(t *testing.T) {
	t.Helper()
	state := e.state(t)
	assert.Equal(t, state.AwaitingConfirmation, state.Pending != nil, "awaiting iff pending")
}

func (e *env) stock(t *testing.T, product string) int {
	t.Helper()
	p, err := e.repo.GetProduct(context.Background(), product)
	require.NoError(t, err)
	return p.Stock
}

var aliceOrder = map[string]any{"customer_name": "Alice", "product_name": "Wireless Mouse", "quantity": float64(1)}

func TestCreateThenConfirm(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.planner.push("create_order", aliceOrder)

	reply := e.submit(t, "Order a Wireless Mouse for Alice")
	assert.Equal(t, format.ConfirmPrompt("create_order", aliceOrder), reply)

	state := e.state(t)
	assert.True(t, state.AwaitingConfirmation)
	assert.Equal(t, "create_order", state.Pending.Name)

	// staged, not executed
	assert.Equal(t, 150, e.stock(t, "Wireless Mouse"))
	_, err := e.repo.GetOrder(ctx, "ORD-1004")
	require.ErrorIs(t, err, core.ErrNotFound)

	reply = e.submit(t, "yes")
	assert.Contains(t, reply, "**Order ORD-1004**")
	assert.Contains(t, reply, "✅ Order ORD-1004 created successfully!")

	order, err := e.repo.GetOrder(ctx, "ORD-1004")
	require.NoError(t, err)
	assert.Equal(t, core.StatusProcessing, order.Status)
	assert.Equal(t, 29.99, order.Price)
	assert.Equal(t, 149, e.stock(t, "Wireless Mouse"))

	state = e.state(t)
	assert.False(t, state.AwaitingConfirmation)
	assert.Nil(t, state.Pending)

	// confirmation is resolved locally
	assert.Equal(t, 1, e.planner.calls)
	assert.Equal(t, 1, e.classifier.calls)

	// executes once: a second "yes" goes back to the planner
	e.submit(t, "yes")
	assert.Equal(t, 2, e.planner.calls)
	assert.Equal(t, 149, e.stock(t, "Wireless Mouse"))
}

func TestCreateThenDeny(t *testing.T) {
	e := newEnv(t)
	e.planner.push("create_order", aliceOrder)

	e.submit(t, "Order a Wireless Mouse for Alice")
	reply := e.submit(t, "no, cancel that")

	assert.Equal(t, format.DenyReply, reply)
	assert.Equal(t, 150, e.stock(t, "Wireless Mouse"))
	assert.False(t, e.state(t).AwaitingConfirmation)

	_, err := e.repo.GetOrder(context.Background(), "ORD-1004")
	require.ErrorIs(t, err, core.ErrNotFound)

	// a second deny is just a new message for the planner
	reply = e.submit(t, "no")
	assert.NotEqual(t, format.DenyReply, reply)
	assert.Equal(t, 2, e.planner.calls)
}

func TestUnclearKeepsPending(t *testing.T) {
	e := newEnv(t)
	e.planner.push("create_order", aliceOrder)

	e.submit(t, "Order a Wireless Mouse for Alice")
	before := e.state(t).Pending

	reply := e.submit(t, "blah")
	assert.Equal(t, format.UnclearReply, reply)

	state := e.state(t)
	assert.True(t, state.AwaitingConfirmation)
	assert.Equal(t, before, state.Pending)
	assert.Equal(t, 150, e.stock(t, "Wireless Mouse"))

	// every turn is recorded, the unclear one included
	require.Len(t, state.Messages, 4)
	assert.Equal(t, "blah", state.Messages[2].Content)
	assert.Equal(t, format.UnclearReply, state.Messages[3].Content)

	e.submit(t, "ok go ahead")
	assert.Equal(t, 149, e.stock(t, "Wireless Mouse"))
}

func TestReadNeverStages(t *testing.T) {
	e := newEnv(t)
	e.classifier.intent = core.IntentRead
	e.planner.push("search_orders", map[string]any{})
	e.planner.push("search_products", map[string]any{"category": "Garden"})

	reply := e.submit(t, "Show me all orders")
	assert.True(t, len(reply) > 0)
	assert.Contains(t, reply, "Found 3 order(s):")
	assert.False(t, e.state(t).AwaitingConfirmation)

	reply = e.submit(t, "Any garden tools?")
	assert.Equal(t, "⚠️ No products found matching the criteria.", reply)
	assert.False(t, e.state(t).AwaitingConfirmation)

	assert.Equal(t, []core.Intent{core.IntentRead, core.IntentRead}, e.planner.intents)
}

func TestTextReply(t *testing.T) {
	e := newEnv(t)
	e.planner.script = []core.Plan{{Text: "Hello! How can I help you today?"}}

	reply := e.submit(t, "hi")
	assert.Equal(t, "Hello! How can I help you today?", reply)

	state := e.state(t)
	require.Len(t, state.Messages, 2)
	assert.Equal(t, core.RoleUser, state.Messages[0].Role)
	assert.Equal(t, core.RoleAssistant, state.Messages[1].Role)
}

func TestUnknownAction(t *testing.T) {
	e := newEnv(t)
	e.planner.push("drop_tables", map[string]any{})

	reply := e.submit(t, "drop everything")
	assert.Equal(t, "⚠️ Unknown action 'drop_tables'.", reply)
	assert.False(t, e.state(t).AwaitingConfirmation)
}

func TestPlannerFailure(t *testing.T) {
	e := newEnv(t)
	e.planner.err = errors.New("upstream 500")

	reply := e.submit(t, "Cancel order ORD-1002")
	assert.Equal(t, format.FallbackReply, reply)

	state := e.state(t)
	assert.False(t, state.AwaitingConfirmation)
	require.Len(t, state.Messages, 2)
}

func TestPlannerTimeout(t *testing.T) {
	e := newEnv(t, session.WithLLMTimeout(20*time.Millisecond))
	e.planner.block = true

	reply := e.submit(t, "hello?")
	assert.Equal(t, format.FallbackReply, reply)
}

func TestClassifierFailureDegradesToGeneral(t *testing.T) {
	e := newEnv(t)
	e.classifier.intent = core.IntentDelete
	e.classifier.err = errors.New("classifier down")

	e.submit(t, "hi")
	assert.Equal(t, []core.Intent{core.IntentGeneral}, e.planner.intents)
}

func TestClassifierSeesRecentWindow(t *testing.T) {
	e := newEnv(t)

	e.submit(t, "one")
	e.submit(t, "two")
	e.submit(t, "three")

	require.Len(t, e.classifier.recent, 3)
	assert.Equal(t, "reply 2", e.classifier.recent[1].Content)
	assert.Equal(t, "three", e.classifier.recent[2].Content)
}

func TestMutationsStageAcrossKinds(t *testing.T) {
	mutations := map[string]map[string]any{
		"add_product":          {"product_name": "Pen", "price": 1.5, "stock": 10},
		"update_order_status":  {"order_number": "ORD-1001", "new_status": "Delivered"},
		"update_product_price": {"product_name": "USB-C Hub", "new_price": 45},
		"update_product_stock": {"product_name": "USB-C Hub", "new_stock": 10},
		"cancel_order":         {"order_number": "ORD-1002"},
		"delete_product":       {"product_name": "Gaming Keyboard"},
	}

	for name, args := range mutations {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t)
			e.planner.push(name, args)

			reply := e.submit(t, "do something")
			assert.Contains(t, reply, "**Action**: "+format.Title(name))
			assert.True(t, e.state(t).AwaitingConfirmation)

			reply = e.submit(t, "yes")
			assert.Contains(t, reply, "✅")
		})
	}
}

func TestCancelOrderScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.repo.UpdateProductStock(ctx, "Wireless Mouse", 148)
	require.NoError(t, err)

	e.planner.push("cancel_order", map[string]any{"order_number": "ORD-1002"})
	e.submit(t, "Cancel order ORD-1002")
	reply := e.submit(t, "yes")

	assert.Equal(t, "✅ Order ORD-1002 has been cancelled. Stock restored.", reply)
	assert.Equal(t, 150, e.stock(t, "Wireless Mouse"))

	order, err := e.repo.GetOrder(ctx, "ORD-1002")
	require.NoError(t, err)
	assert.Equal(t, core.StatusCancelled, order.Status)
}

func TestConfirmedFailureIsFormatted(t *testing.T) {
	e := newEnv(t)
	e.planner.push("delete_product", map[string]any{"product_name": "Wireless Mouse"})

	e.submit(t, "Remove the Wireless Mouse")
	reply := e.submit(t, "yes")

	assert.Equal(t, "⚠️ Cannot delete 'Wireless Mouse'. There are 1 active orders for this product.", reply)
	assert.False(t, e.state(t).AwaitingConfirmation)
	assert.Equal(t, 150, e.stock(t, "Wireless Mouse"))
}

func TestReset(t *testing.T) {
	e := newEnv(t)
	e.planner.push("create_order", aliceOrder)
	e.submit(t, "Order a Wireless Mouse for Alice")

	require.NoError(t, e.handle.Reset(context.Background()))

	state := e.state(t)
	assert.Empty(t, state.Messages)
	assert.False(t, state.AwaitingConfirmation)
	assert.Nil(t, state.Pending)

	// "yes" after a reset is no longer a confirmation
	e.submit(t, "yes")
	assert.Equal(t, 150, e.stock(t, "Wireless Mouse"))
}

func TestSessionsAreIsolated(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.planner.push("create_order", aliceOrder)
	e.submit(t, "Order a Wireless Mouse for Alice")

	other, err := e.manager.GetOrCreate(ctx, "other")
	require.NoError(t, err)
	_, err = other.Submit(ctx, "yes")
	require.NoError(t, err)

	assert.Equal(t, 150, e.stock(t, "Wireless Mouse"))
	assert.True(t, e.state(t).AwaitingConfirmation)

	n, err := e.manager.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestConcurrentSubmitsSerialize(t *testing.T) {
	e := newEnv(t)
	const turns = 20

	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.handle.Submit(context.Background(), fmt.Sprintf("message %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, e.state(t).Messages, turns*2)
}

type failingStore struct {
	core.SessionStore
}

func (failingStore) Save(context.Context, string, *core.SessionState) error {
	return errors.New("disk full")
}

func TestStoreFailureSurfaces(t *testing.T) {
	engine := session.NewEngine(&fakeClassifier{}, &fakePlanner{}, catalog.New(nil))
	manager := session.NewManager(engine, failingStore{SessionStore: memory.NewSessionStore()})

	_, err := manager.GetOrCreate(context.Background(), "s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

// flakyStore fails saves according to a queue armed by the test; true means fail.
type flakyStore struct {
	core.SessionStore

	mu    sync.Mutex
	queue []bool
}

func (s *flakyStore) arm(plan ...bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = plan
}

func (s *flakyStore) Save(ctx context.Context, sessionID string, state *core.SessionState) error {
	s.mu.Lock()
	fail := false
	if len(s.queue) > 0 {
		fail, s.queue = s.queue[0], s.queue[1:]
	}
	s.mu.Unlock()

	if fail {
		return errors.New("connection reset")
	}
	return s.SessionStore.Save(ctx, sessionID, state)
}

func (e *env) aliceOrders(t *testing.T) int {
	t.Helper()
	orders, err := e.repo.SearchOrders(context.Background(), core.OrderFilter{CustomerName: "Alice"})
	require.NoError(t, err)
	return len(orders)
}

func TestConfirmNotRunWhenClearedStateCannotBeSaved(t *testing.T) {
	store := &flakyStore{SessionStore: memory.NewSessionStore()}
	e := newEnvWithStore(t, store)
	ctx := context.Background()

	e.planner.push("create_order", aliceOrder)
	e.submit(t, "Create an order for Alice, 1 Wireless Mouse")

	store.arm(true)
	_, err := e.handle.Submit(ctx, "yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	// nothing ran, the action is still waiting
	assert.Equal(t, 150, e.stock(t, "Wireless Mouse"))
	assert.Equal(t, 0, e.aliceOrders(t))
	state := e.state(t)
	assert.True(t, state.AwaitingConfirmation)
	require.NotNil(t, state.Pending)

	reply := e.submit(t, "yes")
	assert.Contains(t, reply, "Order ORD-1004 created successfully!")
	assert.Equal(t, 149, e.stock(t, "Wireless Mouse"))
	assert.Equal(t, 1, e.aliceOrders(t))
}

func TestConfirmRunsAtMostOnceWhenFinalSaveFails(t *testing.T) {
	store := &flakyStore{SessionStore: memory.NewSessionStore()}
	e := newEnvWithStore(t, store)
	ctx := context.Background()

	e.planner.push("create_order", aliceOrder)
	e.submit(t, "Create an order for Alice, 1 Wireless Mouse")

	// checkpoint succeeds, the save after execution does not
	store.arm(false, true)
	_, err := e.handle.Submit(ctx, "yes")
	require.Error(t, err)

	assert.Equal(t, 149, e.stock(t, "Wireless Mouse"))
	state := e.state(t)
	assert.False(t, state.AwaitingConfirmation)
	assert.Nil(t, state.Pending)

	// a repeated yes is an ordinary message now
	calls := e.planner.calls
	reply := e.submit(t, "yes")
	assert.NotContains(t, reply, "created successfully")
	assert.Equal(t, calls+1, e.planner.calls)
	assert.Equal(t, 149, e.stock(t, "Wireless Mouse"))
	assert.Equal(t, 1, e.aliceOrders(t))
}
