package mcp

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/slidesync/internal/slides"
)

const introContent = "<div>\n  <h1>Intro</h1>\n  <p>Hello</p>\n</div>"

func newTestServer(t *testing.T) (*Server, *slides.Store) {
	t.Helper()
	store, err := slides.NewStore([]slides.Slide{
		{ID: "a", Title: "Intro", HTMLContent: introContent},
		{ID: "b", Title: "Slide 2", HTMLContent: "<p>two</p>"},
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return NewServer(store, nil), store
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String(), result.IsError
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{listSlidesTool, "list_slides"},
		{getSlideTool, "get_slide"},
		{addSlideTool, "add_slide"},
		{updateSlideTool, "update_slide"},
		{deleteSlideTool, "delete_slide"},
		{locateSourceTool, "locate_source"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, store := newTestServer(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.store != store {
		t.Error("store not set correctly")
	}
}

func TestHandleListSlides(t *testing.T) {
	srv, store := newTestServer(t)

	text, isErr := call(t, srv.handleListSlides, nil)
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "2 slide(s)") || !strings.Contains(text, "* 1. Intro (id a") {
		t.Errorf("outline = %q", text)
	}

	store.Replace(nil)
	text, _ = call(t, srv.handleListSlides, nil)
	if !strings.Contains(text, "empty") {
		t.Errorf("empty outline = %q", text)
	}
}

func TestHandleGetSlide(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name    string
		args    map[string]any
		want    string
		wantErr bool
	}{
		{"by id", map[string]any{"id": "b"}, "<p>two</p>", false},
		{"by position", map[string]any{"position": 1}, "<h1>Intro</h1>", false},
		{"unknown id", map[string]any{"id": "zzz"}, "no slide", true},
		{"position out of range", map[string]any{"position": 9}, "out of range", true},
		{"no selector", map[string]any{}, "provide either", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, srv.handleGetSlide, tt.args)
			if isErr != tt.wantErr {
				t.Fatalf("isErr = %v, want %v (%s)", isErr, tt.wantErr, text)
			}
			if !strings.Contains(text, tt.want) {
				t.Errorf("text = %q, want it to contain %q", text, tt.want)
			}
		})
	}
}

func TestHandleAddSlide(t *testing.T) {
	srv, store := newTestServer(t)

	text, isErr := call(t, srv.handleAddSlide, map[string]any{"html_content": "<h1>Agenda</h1>"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if store.Len() != 3 {
		t.Fatalf("len = %d, want 3", store.Len())
	}
	active, _ := store.Active()
	if active.Title != "Agenda" || active.HTMLContent != "<h1>Agenda</h1>" {
		t.Errorf("active = %+v", active)
	}
	if !strings.Contains(text, "position 3") {
		t.Errorf("text = %q", text)
	}

	call(t, srv.handleAddSlide, nil)
	last, _ := store.At(3)
	if last.HTMLContent != slides.DefaultSlideContent {
		t.Error("expected default content when html_content is omitted")
	}
}

func TestHandleUpdateSlide(t *testing.T) {
	srv, store := newTestServer(t)

	if text, isErr := call(t, srv.handleUpdateSlide, map[string]any{"id": "b", "html_content": "<h1>Numbers</h1>"}); isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	sl, _ := store.Get("b")
	if sl.Title != "Numbers" {
		t.Errorf("title = %q, want Numbers", sl.Title)
	}

	call(t, srv.handleUpdateSlide, map[string]any{"id": "b", "title": "Renamed"})
	sl, _ = store.Get("b")
	if sl.Title != "Renamed" {
		t.Errorf("title = %q, want Renamed", sl.Title)
	}

	if _, isErr := call(t, srv.handleUpdateSlide, map[string]any{"id": "b"}); !isErr {
		t.Error("expected error when nothing to update")
	}
	if text, isErr := call(t, srv.handleUpdateSlide, map[string]any{"id": "nope", "title": "x"}); !isErr || !strings.Contains(text, "no slide") {
		t.Errorf("unknown id: isErr=%v text=%q", isErr, text)
	}
	if _, isErr := call(t, srv.handleUpdateSlide, map[string]any{"title": "x"}); !isErr {
		t.Error("expected error for missing id")
	}
}

func TestHandleDeleteSlide(t *testing.T) {
	srv, store := newTestServer(t)

	text, isErr := call(t, srv.handleDeleteSlide, map[string]any{"id": "a"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if store.Len() != 1 || store.ActiveID() != "b" {
		t.Errorf("len=%d active=%q", store.Len(), store.ActiveID())
	}
	if _, isErr := call(t, srv.handleDeleteSlide, map[string]any{"id": "a"}); !isErr {
		t.Error("expected error deleting a missing slide")
	}
}

func TestHandleLocateSource(t *testing.T) {
	srv, _ := newTestServer(t)

	text, isErr := call(t, srv.handleLocateSource, map[string]any{"id": "a", "snippet": "<p>Hello</p>"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	start := strings.Index(introContent, "<p>Hello</p>")
	want := fmt.Sprintf("bytes %d-%d (lines 3-3)", start, start+len("<p>Hello</p>"))
	if !strings.Contains(text, want) {
		t.Errorf("text = %q, want %q", text, want)
	}
	if !strings.Contains(text, "   3 |   <p>Hello</p>") {
		t.Errorf("missing source excerpt: %q", text)
	}

	text, isErr = call(t, srv.handleLocateSource, map[string]any{"id": "a", "snippet": "<p>Bye</p>"})
	if isErr || !strings.Contains(text, "not found") {
		t.Errorf("miss: isErr=%v text=%q", isErr, text)
	}
	if _, isErr := call(t, srv.handleLocateSource, map[string]any{"id": "a"}); !isErr {
		t.Error("expected error for missing snippet")
	}
	if _, isErr := call(t, srv.handleLocateSource, map[string]any{"id": "x", "snippet": "<p>"}); !isErr {
		t.Error("expected error for unknown slide")
	}
}

func TestFormatLocationClampsContext(t *testing.T) {
	content := "a\nb"
	got := formatLocation(content, slides.Range{Start: 0, End: 1})
	if !strings.Contains(got, "   1 | a") || !strings.Contains(got, "   2 | b") {
		t.Errorf("formatLocation = %q", got)
	}
}
