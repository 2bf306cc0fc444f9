// Package importer turns markdown decks into slides. Slides within a file
// are separated by a line containing only "---".
package importer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/progress"
	"github.com/ziadkadry99/slidesync/internal/slides"
)

// containerOpen wraps each converted slide so the renderer's auto-fit finds
// a native footprint.
const containerOpen = `<div class="slide-container w-full h-full flex flex-col justify-center p-16 bg-white text-gray-900 space-y-4">`

// Importer converts markdown files into slides.
type Importer struct {
	md       goldmark.Markdown
	reporter progress.Reporter
	logger   *zap.Logger
}

// New creates an Importer. A nil reporter or logger disables that output.
func New(reporter progress.Reporter, logger *zap.Logger) *Importer {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Importer{md: md, reporter: reporter, logger: logger}
}

// ImportFiles converts every file in order. Slide titles are derived from
// the first heading, falling back to their position counted from offset.
func (im *Importer) ImportFiles(paths []string, offset int) ([]slides.Slide, error) {
	im.reporter.Start(len(paths))
	defer im.reporter.Finish()

	var out []slides.Slide
	for i, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		converted, err := im.Convert(src, offset+len(out))
		if err != nil {
			return nil, fmt.Errorf("converting %s: %w", path, err)
		}
		im.logger.Debug("imported file",
			zap.String("path", path),
			zap.Int("slides", len(converted)),
		)
		out = append(out, converted...)
		im.reporter.Update(i+1, filepath.Base(path))
	}
	return out, nil
}

// Convert renders one markdown deck. Blank chunks between separators are
// skipped.
func (im *Importer) Convert(src []byte, offset int) ([]slides.Slide, error) {
	var out []slides.Slide
	for _, chunk := range SplitSlides(src) {
		if len(bytes.TrimSpace(chunk)) == 0 {
			continue
		}
		var buf bytes.Buffer
		if err := im.md.Convert(chunk, &buf); err != nil {
			return nil, err
		}
		content := containerOpen + "\n" + buf.String() + "</div>\n"
		out = append(out, slides.Slide{
			ID:          slides.NewID(),
			Title:       slides.DeriveTitle(content, slides.PositionalTitle(offset+len(out))),
			HTMLContent: content,
		})
	}
	return out, nil
}

// SplitSlides cuts src at separator lines. Separators inside fenced code
// blocks are kept as content. Lines have no length limit, so inlined data
// URIs survive.
func SplitSlides(src []byte) [][]byte {
	var (
		chunks  [][]byte
		current bytes.Buffer
		fence   []byte
	)
	for len(src) > 0 {
		line := src
		if i := bytes.IndexByte(src, '\n'); i >= 0 {
			line, src = src[:i], src[i+1:]
		} else {
			src = nil
		}
		line = bytes.TrimSuffix(line, []byte("\r"))
		trimmed := bytes.TrimSpace(line)

		switch {
		case fence != nil:
			if bytes.HasPrefix(trimmed, fence) {
				fence = nil
			}
		case bytes.HasPrefix(trimmed, []byte("```")):
			fence = []byte("```")
		case bytes.HasPrefix(trimmed, []byte("~~~")):
			fence = []byte("~~~")
		case string(trimmed) == "---":
			chunks = append(chunks, bytes.Clone(current.Bytes()))
			current.Reset()
			continue
		}
		current.Write(line)
		current.WriteByte('\n')
	}
	return append(chunks, bytes.Clone(current.Bytes()))
}
