package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/fdn/internal/ledger"
	"github.com/starford/fdn/internal/namecrypt"
	"github.com/starford/fdn/internal/registry"
	"github.com/starford/fdn/internal/testutil"
)

func testServer(t *testing.T) (*Server, *registry.Registry, *ledger.Ledger) {
	t.Helper()
	db := testutil.TestDB(t)
	reg := registry.New(db, 0, nil)
	l := ledger.New(db, namecrypt.AESGCM{}, nil)
	return New(reg, l, 0, "test"), reg, l
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "preview_name":
		result, err = srv.previewName(ctx, req)
	case "list_rules":
		result, err = srv.listRules(ctx, req)
	case "history":
		result, err = srv.historyTool(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestPreviewName(t *testing.T) {
	srv, reg, _ := testServer(t)
	if _, err := reg.Add(" "); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "preview_name", map[string]interface{}{"name": "My File.txt"})
	if got := resultText(r); got != "My_File.txt" {
		t.Errorf("preview_name = %q, want %q", got, "My_File.txt")
	}

	r = callTool(t, srv, "preview_name", map[string]interface{}{"name": "a b.c d", "is_dir": true})
	if got := resultText(r); got != "a_b.c_d" {
		t.Errorf("preview_name dir = %q, want %q", got, "a_b.c_d")
	}
}

func TestPreviewNameRejectsPath(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "preview_name", map[string]interface{}{"name": "dir/file"})
	if !r.IsError {
		t.Error("expected error for a name with a separator")
	}
	r = callTool(t, srv, "preview_name", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for a missing name")
	}
}

func TestListRules(t *testing.T) {
	srv, reg, _ := testServer(t)
	if _, err := reg.Add("foo:bar"); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "list_rules", map[string]interface{}{})
	var got rulesDTO
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Separator != "_" {
		t.Errorf("separator = %q, want %q", got.Separator, "_")
	}
	if len(got.TermWords) != 1 || got.TermWords[0].Key != "foo" || got.TermWords[0].Value != "bar" {
		t.Errorf("term words = %+v", got.TermWords)
	}
}

func TestHistory(t *testing.T) {
	srv, _, l := testServer(t)
	if _, err := l.Record("n0", "n1"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Record("n1", "n2"); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "history", map[string]interface{}{"name": "n2"})
	var got []string
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0] != "n1" || got[1] != "n0" {
		t.Errorf("history = %v, want [n1 n0]", got)
	}

	r = callTool(t, srv, "history", map[string]interface{}{"name": "unknown"})
	if got := resultText(r); got != "[]" {
		t.Errorf("history unknown = %q, want []", got)
	}
}

func TestRulesResource(t *testing.T) {
	srv, _, _ := testServer(t)
	contents, err := srv.readRulesResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != rulesURI {
		t.Errorf("resource = %+v", contents[0])
	}
}
