package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/internal/service/catalog"
	"github.com/sandevgo/shopdesk/internal/service/session"
	"github.com/sandevgo/shopdesk/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticClassifier struct{}

func (staticClassifier) Classify(context.Context, []core.Message) (core.Intent, error) {
	return core.IntentGeneral, nil
}

type echoPlanner struct{}

func (echoPlanner) Plan(_ context.Context, history []core.Message, _ core.Intent, _ []core.Tool) (core.Plan, error) {
	return core.Plan{Text: "echo: " + history[len(history)-1].Content}, nil
}

func newTestServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()
	engine := session.NewEngine(staticClassifier{}, echoPlanner{}, catalog.New(nil))
	manager := session.NewManager(engine, memory.NewSessionStore())
	return NewServer(manager), manager
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestChatTool(t *testing.T) {
	s, manager := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleChat(ctx, callRequest("chat", map[string]any{"message": "hello"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "echo: hello", resultText(t, res))

	res, err = s.handleChat(ctx, callRequest("chat", map[string]any{"message": "hi", "session_id": "agent-7"}))
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", resultText(t, res))

	n, err := manager.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	h, err := manager.GetOrCreate(ctx, DefaultSessionID)
	require.NoError(t, err)
	state, err := h.State(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Messages, 2)
}

func TestChatTool_MissingMessage(t *testing.T) {
	s, _ := newTestServer(t)

	for _, args := range []map[string]any{{}, {"message": "  "}} {
		res, err := s.handleChat(context.Background(), callRequest("chat", args))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	}
}

func TestResetTool(t *testing.T) {
	s, manager := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleChat(ctx, callRequest("chat", map[string]any{"message": "hello", "session_id": "x"}))
	require.NoError(t, err)

	res, err := s.handleReset(ctx, callRequest("reset_conversation", map[string]any{"session_id": "x"}))
	require.NoError(t, err)
	assert.Equal(t, "Conversation reset successfully", resultText(t, res))

	h, err := manager.GetOrCreate(ctx, "x")
	require.NoError(t, err)
	state, err := h.State(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Messages)
}

func TestListActionsTool(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.handleListActions(context.Background(), callRequest("list_actions", nil))
	require.NoError(t, err)

	lines := strings.Split(resultText(t, res), "\n")
	require.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "search_orders (READ): "))
	assert.True(t, strings.HasPrefix(lines[9], "delete_product (MUTATING): "))
}
