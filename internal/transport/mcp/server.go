// Package mcp exposes the assistant as tools on a Model Context Protocol server,
// so other agents can drive a conversation over stdio.
package mcp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/shopdesk/internal/core"
	"github.com/sandevgo/shopdesk/internal/service/catalog"
	"github.com/sandevgo/shopdesk/internal/service/session"
	"github.com/sandevgo/shopdesk/pkg/log"
)

const DefaultSessionID = "mcp-default"

type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
}

func NewServer(sessions *session.Manager) *Server {
	s := &Server{
		sessions:  sessions,
		mcpServer: server.NewMCPServer(strings.ToLower(core.AppName), core.AppVersion),
	}
	s.registerTools()
	return s
}

// Serve speaks MCP over the given streams until ctx is cancelled or in closes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	log.FromCtx(ctx).Info().Msg("starting mcp stdio server")
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("chat",
		mcp.WithDescription("Send a message to the store assistant. Changes to orders and products are only made after the assistant asks for confirmation and a later message answers yes."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user message")),
		mcp.WithString("session_id", mcp.Description("Conversation to continue (default \""+DefaultSessionID+"\")")),
	), s.handleChat)

	s.mcpServer.AddTool(mcp.NewTool("reset_conversation",
		mcp.WithDescription("Clear the history and any pending confirmation of a conversation."),
		mcp.WithString("session_id", mcp.Description("Conversation to reset (default \""+DefaultSessionID+"\")")),
	), s.handleReset)

	s.mcpServer.AddTool(mcp.NewTool("list_actions",
		mcp.WithDescription("List the catalog actions the assistant can perform and whether each needs confirmation."),
	), s.handleListActions)
}

func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil || strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	sessionID := request.GetString("session_id", DefaultSessionID)
	ctx = log.WithFields(ctx, "transport", "mcp")

	h, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open session: %v", err)), nil
	}

	reply, err := h.Submit(ctx, message)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(reply), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", DefaultSessionID)

	h, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err == nil {
		err = h.Reset(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to reset session: %v", err)), nil
	}
	return mcp.NewToolResultText("Conversation reset successfully"), nil
}

func (s *Server) handleListActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	for _, d := range catalog.Descriptors() {
		fmt.Fprintf(&sb, "%s (%s): %s\n", d.Name, d.Kind, d.Description)
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}
