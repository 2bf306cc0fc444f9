package slides

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MaxTitleLength is the longest title, in characters, a slide carries.
const MaxTitleLength = 30

// ErrSlideNotFound is returned when an operation references an id that is
// not in the collection. The collection is left unchanged.
var ErrSlideNotFound = errors.New("slide not found")

// DefaultSlideContent seeds new slides and the boot-time default deck.
const DefaultSlideContent = `
<div class="w-full h-full flex flex-col justify-center items-center text-center p-8 bg-gradient-to-br from-sky-500 to-indigo-600 text-white">
  <h1 class="text-5xl font-bold mb-6 shadow-md">New Slide Title</h1>
  <p class="text-2xl mb-4">Start editing your awesome content here!</p>
  <ul class="text-lg list-disc list-inside bg-black bg-opacity-20 p-4 rounded-lg">
    <li>Use Tailwind CSS classes for styling.</li>
    <li>Click elements in preview to highlight code.</li>
    <li>Be creative!</li>
  </ul>
</div>
`

// Slide is one addressable unit of content.
type Slide struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	HTMLContent string `json:"htmlContent"`
}

// Range is a half-open byte span [Start, End) into a slide's HTMLContent.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// NewID returns a fresh opaque slide id.
func NewID() string {
	return uuid.New().String()
}

// PositionalTitle is the fallback title for the slide at zero-based index i.
func PositionalTitle(i int) string {
	return fmt.Sprintf("Slide %d", i+1)
}

// DefaultDeck returns the single-slide collection used when nothing usable
// was persisted.
func DefaultDeck() []Slide {
	return []Slide{{
		ID:          NewID(),
		Title:       PositionalTitle(0),
		HTMLContent: DefaultSlideContent,
	}}
}
