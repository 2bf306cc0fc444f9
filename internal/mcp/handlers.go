package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/slides"
)

// contextLines is how many lines around a located range are echoed back.
const contextLines = 2

// handleListSlides returns the deck outline.
func (s *Server) handleListSlides(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deck := s.store.Slides()
	if len(deck) == 0 {
		return mcp.NewToolResultText("The deck is empty. Use add_slide to create one."), nil
	}
	return mcp.NewToolResultText(formatOutline(deck, s.store.ActiveID())), nil
}

// handleGetSlide returns one slide's content.
func (s *Server) handleGetSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		sl slides.Slide
		ok bool
	)
	if id := request.GetString("id", ""); id != "" {
		sl, ok = s.store.Get(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no slide with id %q", id)), nil
		}
	} else {
		pos := request.GetInt("position", 0)
		if pos <= 0 {
			return mcp.NewToolResultError("provide either id or a positive position"), nil
		}
		sl, ok = s.store.At(pos - 1)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("position %d is out of range (deck has %d slides)", pos, s.store.Len())), nil
		}
	}
	return mcp.NewToolResultText(formatSlide(sl, s.store.IndexOf(sl.ID))), nil
}

// handleAddSlide appends a slide.
func (s *Server) handleAddSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sl := s.store.AddSlide()
	if content := request.GetString("html_content", ""); content != "" {
		if err := s.store.UpdateContent(sl.ID, content); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("setting content: %v", err)), nil
		}
		sl, _ = s.store.Get(sl.ID)
	}
	s.logger.Info("slide added via mcp", zap.String("id", sl.ID))
	return mcp.NewToolResultText(fmt.Sprintf("Added slide %q (id %s) at position %d.", sl.Title, sl.ID, s.store.IndexOf(sl.ID)+1)), nil
}

// handleUpdateSlide changes a slide's content and/or title.
func (s *Server) handleUpdateSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	content := request.GetString("html_content", "")
	title := request.GetString("title", "")
	if content == "" && title == "" {
		return mcp.NewToolResultError("nothing to update: provide html_content or title"), nil
	}

	if content != "" {
		if err := s.store.UpdateContent(id, content); err != nil {
			return toolError(id, err), nil
		}
	}
	if title != "" {
		if err := s.store.SetTitle(id, title); err != nil {
			return toolError(id, err), nil
		}
	}
	sl, _ := s.store.Get(id)
	s.logger.Info("slide updated via mcp", zap.String("id", id))
	return mcp.NewToolResultText(fmt.Sprintf("Updated slide %q.", sl.Title)), nil
}

// handleDeleteSlide removes a slide.
func (s *Server) handleDeleteSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	if err := s.store.DeleteSlide(id); err != nil {
		return toolError(id, err), nil
	}
	s.logger.Info("slide deleted via mcp", zap.String("id", id))
	return mcp.NewToolResultText(fmt.Sprintf("Deleted slide %s. %d slide(s) remain.", id, s.store.Len())), nil
}

// handleLocateSource finds a snippet in a slide's source.
func (s *Server) handleLocateSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	snippet, err := request.RequireString("snippet")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: snippet"), nil
	}
	sl, ok := s.store.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no slide with id %q", id)), nil
	}

	r, ok := slides.Locate(sl.HTMLContent, snippet)
	if !ok {
		return mcp.NewToolResultText("Snippet not found in the slide source."), nil
	}
	return mcp.NewToolResultText(formatLocation(sl.HTMLContent, r)), nil
}

func toolError(id string, err error) *mcp.CallToolResult {
	if errors.Is(err, slides.ErrSlideNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no slide with id %q", id))
	}
	return mcp.NewToolResultError(err.Error())
}

// formatOutline renders the deck as one line per slide.
func formatOutline(deck []slides.Slide, activeID string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d slide(s):\n", len(deck)))
	for i, sl := range deck {
		marker := " "
		if sl.ID == activeID {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %d. %s (id %s, %d bytes)\n", marker, i+1, sl.Title, sl.ID, len(sl.HTMLContent)))
	}
	return sb.String()
}

func formatSlide(sl slides.Slide, index int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Slide %d: %s\n", index+1, sl.Title))
	sb.WriteString(fmt.Sprintf("ID: %s\n\n", sl.ID))
	sb.WriteString(sl.HTMLContent)
	return sb.String()
}

// formatLocation reports a byte range with its 1-based line span and the
// surrounding source lines.
func formatLocation(content string, r slides.Range) string {
	startLine := strings.Count(content[:r.Start], "\n") + 1
	endLine := startLine + strings.Count(content[r.Start:r.End], "\n")

	lines := strings.Split(content, "\n")
	from := max(startLine-1-contextLines, 0)
	to := min(endLine+contextLines, len(lines))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Range: bytes %d-%d (lines %d-%d)\n\n", r.Start, r.End, startLine, endLine))
	for i := from; i < to; i++ {
		sb.WriteString(fmt.Sprintf("%4d | %s\n", i+1, lines[i]))
	}
	return sb.String()
}
