package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/slides"
)

// DefaultKey is the slot the collection is stored under.
const DefaultKey = "slides"

// ErrMalformedState means the persisted blob could not be decoded into a
// valid slide collection.
var ErrMalformedState = errors.New("malformed persisted state")

// KV is the single-slot string storage the adapter writes to. Get reports
// ok=false when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Encode serializes the collection as a JSON array of {id,title,htmlContent}.
func Encode(deck []slides.Slide) (string, error) {
	if deck == nil {
		deck = []slides.Slide{}
	}
	data, err := json.Marshal(deck)
	if err != nil {
		return "", fmt.Errorf("encoding slides: %w", err)
	}
	return string(data), nil
}

// Decode parses a blob produced by Encode. Anything other than an array of
// slides with unique non-empty ids is ErrMalformedState.
func Decode(blob string) ([]slides.Slide, error) {
	var deck []slides.Slide
	if err := json.Unmarshal([]byte(blob), &deck); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if deck == nil {
		return nil, fmt.Errorf("%w: not an array", ErrMalformedState)
	}
	if err := slides.Validate(deck); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return deck, nil
}

// Adapter reads and writes the whole collection to one KV slot.
type Adapter struct {
	kv     KV
	key    string
	logger *zap.Logger
}

// NewAdapter creates an adapter for the given slot. An empty key uses
// DefaultKey.
func NewAdapter(kv KV, key string, logger *zap.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{kv: kv, key: key, logger: logger}
}

// Key returns the slot name.
func (a *Adapter) Key() string { return a.key }

// Load returns the persisted collection, or the default single-slide deck
// when the slot is empty or malformed. Only backend failures are returned.
func (a *Adapter) Load(ctx context.Context) ([]slides.Slide, error) {
	blob, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", a.key, err)
	}
	if !ok {
		a.logger.Info("no persisted slides, starting with default deck", zap.String("key", a.key))
		return slides.DefaultDeck(), nil
	}

	deck, err := Decode(blob)
	if err != nil {
		a.logger.Warn("discarding persisted slides", zap.String("key", a.key), zap.Error(err))
		return slides.DefaultDeck(), nil
	}
	a.logger.Debug("loaded slides", zap.String("key", a.key), zap.Int("count", len(deck)))
	return deck, nil
}

// Save overwrites the slot with the given collection.
func (a *Adapter) Save(ctx context.Context, deck []slides.Slide) error {
	blob, err := Encode(deck)
	if err != nil {
		return err
	}
	if err := a.kv.Set(ctx, a.key, blob); err != nil {
		return fmt.Errorf("writing %s: %w", a.key, err)
	}
	return nil
}
