package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/mathpad"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	eng, err := mathpad.New()
	require.NoError(t, err)
	return NewServer(eng)
}

func TestServer_TypeAndEvaluate(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	out, err := s.handleStart(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "s1"})
	require.NoError(t, err)
	assert.Equal(t, "s1", out.Snapshot.SessionID)

	out, err = s.handleType(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1",
		"text":       "3/4 +1",
	})
	require.NoError(t, err)
	assert.Equal(t, "(3)/(4)+1", out.Snapshot.LinearText)
	assert.Equal(t, domain.ModeNormal, out.Snapshot.Mode)

	out, err = s.handleEvaluate(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "s1"})
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	assert.Equal(t, "1.75", out.Output)
}

func TestServer_TypeNewlineEvaluates(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	_, err := s.handleStart(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "s1"})
	require.NoError(t, err)

	out, err := s.handleType(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "s1", "text": "2^10\n"})
	require.NoError(t, err)
	// The first enter leaves superscript mode; the second would evaluate.
	assert.Equal(t, domain.ModeNormal, out.Snapshot.Mode)
	assert.Empty(t, out.Output)

	out, err = s.handleType(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "s1", "text": "\n"})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionEvaluate, out.Action)
	assert.Equal(t, "1024", out.Output)
}

func TestServer_SendInput(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	_, err := s.handleStart(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "s1"})
	require.NoError(t, err)

	out, err := s.handleInput(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1",
		"type":       "function",
		"value":      "log",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeFunction, out.Snapshot.Mode)
	assert.Equal(t, "LOG()", out.Snapshot.Label)

	_, err = s.handleInput(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "s1",
		"type":       "function",
		"value":      "nope",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownFunction)

	snap, err := s.handleSnapshot(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "s1"})
	require.NoError(t, err)
	assert.Equal(t, "log()", snap.LinearText)
}

func TestServer_UnknownSession(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	_, err := s.handleType(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "ghost", "text": "1"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = s.handleSnapshot(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "ghost"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = s.handleType(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "ghost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_ReadSessionResource(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	_, err := s.handleStart(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "s1"})
	require.NoError(t, err)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = sessionURIPrefix + "s1"
	contents, err := s.readSession(ctx, req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(text.Text), &snap))
	assert.Equal(t, "s1", snap.SessionID)
}

func TestServer_ToolsList(t *testing.T) {
	s := newServer(t)

	resp := s.mcpServer.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	for _, name := range []string{"start_session", "type_text", "send_input", "evaluate", "get_snapshot", "delete_session", "list_snippets"} {
		assert.Contains(t, string(raw), `"`+name+`"`)
	}
}

func TestKeyEvents(t *testing.T) {
	evs := KeyEvents("a \n")
	require.Len(t, evs, 3)
	assert.Equal(t, domain.InputEvent{Type: domain.InputKey, Key: "a"}, evs[0])
	assert.Equal(t, " ", evs[1].Key)
	assert.Equal(t, "enter", evs[2].Key)
}
