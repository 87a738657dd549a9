package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	surlignemcp "github.com/aretw0/surligne/pkg/adapters/mcp"
	"github.com/aretw0/surligne/pkg/adapters/memory"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Contents []struct {
			URI  string `json:"uri"`
			Text string `json:"text"`
		} `json:"contents"`
		StructuredContent json.RawMessage `json:"structuredContent"`
		IsError           bool            `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type harness struct {
	t        *testing.T
	srv      *surlignemcp.Server
	editor   *editor.Editor
	notifier *memory.Notifier
	nextID   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	n := memory.NewNotifier()
	ed, err := editor.New(editor.WithNotifier(n))
	require.NoError(t, err)
	return &harness{t: t, srv: surlignemcp.NewServer(ed), editor: ed, notifier: n}
}

func (h *harness) send(method string, params any) rpcResponse {
	h.t.Helper()
	h.nextID++
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      h.nextID,
		"method":  method,
		"params":  params,
	})
	require.NoError(h.t, err)

	out := h.srv.MCPServer().HandleMessage(context.Background(), raw)
	data, err := json.Marshal(out)
	require.NoError(h.t, err)

	var resp rpcResponse
	require.NoError(h.t, json.Unmarshal(data, &resp), string(data))
	return resp
}

func (h *harness) call(tool string, args map[string]any) rpcResponse {
	h.t.Helper()
	return h.send("tools/call", map[string]any{"name": tool, "arguments": args})
}

func TestTools_List(t *testing.T) {
	h := newHarness(t)
	out := h.srv.MCPServer().HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(out)
	require.NoError(t, err)
	for _, name := range []string{"highlight", "list_zones", "add_keyword", "remove_keyword", "set_zone_color", "set_zone_shape", "apply_palette", "diagram"} {
		assert.Contains(t, string(data), fmt.Sprintf("%q", name))
	}
}

func TestTool_Highlight(t *testing.T) {
	h := newHarness(t)
	resp := h.call("highlight", map[string]any{"text": "tantque x < 3 faire"})
	require.Nil(t, resp.Error)
	require.False(t, resp.Result.IsError)

	var render surlignemcp.RenderResponse
	require.NoError(t, json.Unmarshal(resp.Result.StructuredContent, &render))
	assert.Equal(t, 3, render.Matches)
	assert.Contains(t, render.HTML, `<span style="color:#9b7bff; font-weight:bold">&lt;</span>`)
}

func TestTool_Mutations(t *testing.T) {
	h := newHarness(t)

	resp := h.call("add_keyword", map[string]any{"zone": "boucles", "keyword": "chaque"})
	require.False(t, resp.Result.IsError)
	assert.True(t, h.editor.Configuration().IsKeywordUsed("CHAQUE"))

	resp = h.call("add_keyword", map[string]any{"zone": "instructions", "keyword": "Chaque"})
	assert.True(t, resp.Result.IsError)
	require.NotEmpty(t, resp.Result.Content)
	assert.Contains(t, resp.Result.Content[0].Text, "already in use")

	resp = h.call("remove_keyword", map[string]any{"zone": "boucles", "keyword": "chaque"})
	require.False(t, resp.Result.IsError)
	assert.False(t, h.editor.Configuration().IsKeywordUsed("chaque"))

	resp = h.call("set_zone_color", map[string]any{"zone": "fonctions", "color": "#FFF"})
	require.False(t, resp.Result.IsError)
	var zones surlignemcp.ZonesResponse
	require.NoError(t, json.Unmarshal(resp.Result.StructuredContent, &zones))
	assert.Equal(t, "#ffffff", zones.Zones[4].Color)
	assert.Len(t, h.notifier.Changes(), 4, "one change per fonctions keyword")

	h.notifier.Reset()
	resp = h.call("set_zone_shape", map[string]any{"zone": "procedures", "shape": "diamond"})
	require.False(t, resp.Result.IsError)
	changes := h.notifier.Changes()
	require.NotEmpty(t, changes)
	assert.Equal(t, domain.ShapeDiamond, changes[0].Shape)

	resp = h.call("apply_palette", map[string]any{"zone": "procedures", "palette": "vivid"})
	require.False(t, resp.Result.IsError)
	z, _ := h.editor.Configuration().Zone("procedures")
	assert.Equal(t, "#ff9a3b", z.Color)

	resp = h.call("set_zone_shape", map[string]any{"zone": "procedures", "shape": "hexagon"})
	assert.True(t, resp.Result.IsError)
}

func TestTool_Diagram(t *testing.T) {
	h := newHarness(t)
	resp := h.call("diagram", map[string]any{})
	require.False(t, resp.Result.IsError)
	require.NotEmpty(t, resp.Result.Content)
	assert.Contains(t, resp.Result.Content[0].Text, "graph TD")
	assert.Contains(t, resp.Result.Content[0].Text, `{"si"}`)
}

func TestResource_Zones(t *testing.T) {
	h := newHarness(t)
	resp := h.send("resources/read", map[string]any{"uri": surlignemcp.ZonesURI})
	require.Nil(t, resp.Error)
	require.Len(t, resp.Result.Contents, 1)

	var zones surlignemcp.ZonesResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Contents[0].Text), &zones))
	assert.Len(t, zones.Zones, 6)
}
