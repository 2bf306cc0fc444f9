package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Mode selects which programs a document carries.
type Mode string

const (
	// ModePreview documents report clicks back to the host page.
	ModePreview Mode = "preview"
	// ModePresent documents only auto-fit.
	ModePresent Mode = "present"
)

// DefaultStylesheetURL is the companion utility-class engine slide markup is
// written against.
const DefaultStylesheetURL = "https://cdn.tailwindcss.com"

// ClickMessageType is the type field of click notifications posted by
// preview documents.
const ClickMessageType = "previewElementClicked"

// Options controls a single document build.
type Options struct {
	Scale         float64 // manual zoom on top of auto-fit; <= 0 or NaN means 1
	Mode          Mode
	SurfaceID     string // echoed in click notifications
	StylesheetURL string // empty uses DefaultStylesheetURL, "none" omits it
	Title         string
}

// ParseMode maps a query-string value to a Mode. Empty means preview.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModePreview:
		return ModePreview, nil
	case ModePresent:
		return ModePresent, nil
	default:
		return "", fmt.Errorf("unknown render mode %q", s)
	}
}

// NewSurfaceID returns a fresh identifier for a rendered document.
func NewSurfaceID() string {
	return uuid.New().String()
}

// NormalizeScale returns s, or 1 when s is not a positive finite number.
func NormalizeScale(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return 1
	}
	return s
}

type documentData struct {
	Title         string
	StylesheetURL string
	Content       template.HTML
	Scale         float64
	Present       bool
	Preview       bool
	SurfaceID     string
	MessageType   string
}

var documentTmpl = template.Must(template.New("document").Parse(documentTemplate))

// BuildDocument wraps slide markup in a standalone HTML5 document that
// scales its content to fit the viewport. Preview documents also report
// clicked elements to the parent window.
func BuildDocument(content string, opts Options) string {
	mode := opts.Mode
	if mode == "" {
		mode = ModePreview
	}

	stylesheet := opts.StylesheetURL
	switch stylesheet {
	case "":
		stylesheet = DefaultStylesheetURL
	case "none":
		stylesheet = ""
	}

	data := documentData{
		Title:         opts.Title,
		StylesheetURL: stylesheet,
		Content:       template.HTML(content),
		Scale:         NormalizeScale(opts.Scale),
		Present:       mode == ModePresent,
		Preview:       mode == ModePreview,
		SurfaceID:     opts.SurfaceID,
		MessageType:   ClickMessageType,
	}

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, data); err != nil {
		return "<!DOCTYPE html><html><body><pre>" + html.EscapeString(err.Error()) + "</pre></body></html>"
	}
	return buf.String()
}
