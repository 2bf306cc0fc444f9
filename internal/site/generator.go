package site

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/slidesync/internal/progress"
	"github.com/ziadkadry99/slidesync/internal/render"
	"github.com/ziadkadry99/slidesync/internal/slides"
)

// SlidesDir is the output subdirectory holding one document per slide.
const SlidesDir = "slides"

// SiteGenerator writes a deck out as a self-contained static site: one
// presentation document per slide, an index page and a keyboard-driven
// player.
type SiteGenerator struct {
	OutputDir     string
	Title         string
	StylesheetURL string
	Reporter      progress.Reporter
}

// NewSiteGenerator creates a SiteGenerator writing to outputDir.
func NewSiteGenerator(outputDir, title, stylesheetURL string) *SiteGenerator {
	return &SiteGenerator{
		OutputDir:     outputDir,
		Title:         title,
		StylesheetURL: stylesheetURL,
		Reporter:      progress.Nop{},
	}
}

// slideEntry describes one exported slide for the index and player pages.
type slideEntry struct {
	Number int
	Title  string
	File   string
}

// pageData holds the data passed to the index and player templates.
type pageData struct {
	Title  string
	Slides []slideEntry
	Files  []string
}

var (
	indexTmpl  = template.Must(template.New("index").Parse(indexTemplate))
	playerTmpl = template.Must(template.New("player").Parse(playerTemplate))
)

// Generate builds the site from deck. Returns the number of slide pages
// generated.
func (g *SiteGenerator) Generate(deck []slides.Slide) (int, error) {
	if len(deck) == 0 {
		return 0, fmt.Errorf("no slides to export")
	}
	if err := os.MkdirAll(filepath.Join(g.OutputDir, SlidesDir), 0o755); err != nil {
		return 0, err
	}

	reporter := g.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	reporter.Start(len(deck))
	defer reporter.Finish()

	data := pageData{Title: g.Title}
	for i, sl := range deck {
		entry := slideEntry{
			Number: i + 1,
			Title:  sl.Title,
			File:   slideFileName(i),
		}
		doc := render.BuildDocument(sl.HTMLContent, render.Options{
			Scale:         1,
			Mode:          render.ModePresent,
			StylesheetURL: g.StylesheetURL,
			Title:         sl.Title,
		})
		outPath := filepath.Join(g.OutputDir, filepath.FromSlash(entry.File))
		if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
			return 0, fmt.Errorf("writing %s: %w", entry.File, err)
		}
		data.Slides = append(data.Slides, entry)
		data.Files = append(data.Files, entry.File)
		reporter.Update(i+1, sl.Title)
	}

	if err := writeTemplate(filepath.Join(g.OutputDir, "index.html"), indexTmpl, data); err != nil {
		return 0, err
	}
	if err := writeTemplate(filepath.Join(g.OutputDir, "present.html"), playerTmpl, data); err != nil {
		return 0, err
	}
	return len(deck), nil
}

// slideFileName returns the slash-separated output path for slide i.
func slideFileName(i int) string {
	return fmt.Sprintf("%s/%03d.html", SlidesDir, i+1)
}

func writeTemplate(path string, tmpl *template.Template, data pageData) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
