package render

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

var zoomRe = regexp.MustCompile(`manualZoom =\s*([0-9.eE+-]+)\s*;`)

func zoomOf(t *testing.T, doc string) float64 {
	t.Helper()
	m := zoomRe.FindStringSubmatch(doc)
	if m == nil {
		t.Fatal("document has no manual zoom assignment")
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		t.Fatalf("parsing zoom %q: %v", m[1], err)
	}
	return v
}

func TestBuildDocumentEmbedsContentVerbatim(t *testing.T) {
	content := `<div class="slide-container" data-x="1"><h1>Hi & bye</h1><script>var a = 1 < 2;</script></div>`
	doc := BuildDocument(content, Options{Scale: 1, SurfaceID: "s1"})

	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Error("document should start with a doctype")
	}
	if !strings.Contains(doc, `<div id="slide-content-wrapper">`) {
		t.Error("missing content wrapper")
	}
	if !strings.Contains(doc, content) {
		t.Error("content was altered")
	}
}

func TestBuildDocumentScale(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1, 1},
		{1.5, 1.5},
		{0.25, 0.25},
		{0, 1},
		{-2, 1},
		{math.NaN(), 1},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		got := zoomOf(t, BuildDocument("<p>x</p>", Options{Scale: tt.in}))
		if got != tt.want {
			t.Errorf("scale %v: zoom = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPreviewDocumentReportsClicks(t *testing.T) {
	doc := BuildDocument("<p>x</p>", Options{Mode: ModePreview, SurfaceID: "surface-42"})

	for _, want := range []string{
		`"previewElementClicked"`,
		`"surface-42"`,
		`'BLOCKQUOTE'`,
		`i < 7`,
		`Object.keys(current.dataset).length > 0`,
		`#2d3748`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("preview document missing %s", want)
		}
	}
}

func TestPresentDocumentHasNoClickReporter(t *testing.T) {
	doc := BuildDocument("<p>x</p>", Options{Mode: ModePresent, SurfaceID: "surface-42"})

	if strings.Contains(doc, ClickMessageType) {
		t.Error("present document should not report clicks")
	}
	if strings.Contains(doc, "surface-42") {
		t.Error("present document should not carry the surface id")
	}
	if !strings.Contains(doc, "#000000") {
		t.Error("present document should use a black backdrop")
	}
	if !strings.Contains(doc, "wrapper.children[0]") {
		t.Error("present document should fall back to the first child footprint")
	}
}

func TestAutoFitProgram(t *testing.T) {
	doc := BuildDocument("", Options{})
	for _, want := range []string{
		"width = 1280, height = 720",
		"* 0.98 * manualZoom",
		"debounce(applyScaling, 150)",
		"setTimeout(applyScaling, 100)",
		"setTimeout(applyScaling, 500)",
		"attributeFilter: ['style', 'class', 'id']",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("auto-fit program missing %q", want)
		}
	}
}

func TestStylesheet(t *testing.T) {
	if doc := BuildDocument("", Options{}); !strings.Contains(doc, DefaultStylesheetURL) {
		t.Error("default stylesheet missing")
	}
	if doc := BuildDocument("", Options{StylesheetURL: "/static/slides.css"}); !strings.Contains(doc, `src="/static/slides.css"`) {
		t.Error("custom stylesheet missing")
	}
	if doc := BuildDocument("", Options{StylesheetURL: "none"}); strings.Contains(doc, "<script src=") {
		t.Error("stylesheet should be omitted")
	}
}

func TestTitleIsEscaped(t *testing.T) {
	doc := BuildDocument("", Options{Title: "<b>Deck</b>"})
	if !strings.Contains(doc, "<title>&lt;b&gt;Deck&lt;/b&gt;</title>") {
		t.Errorf("title not escaped in %s", doc[:200])
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModePreview, false},
		{"preview", ModePreview, false},
		{"PRESENT", ModePresent, false},
		{"slideshow", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestNewSurfaceIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewSurfaceID()
		if seen[id] {
			t.Fatalf("duplicate surface id %s", id)
		}
		seen[id] = true
	}
}
