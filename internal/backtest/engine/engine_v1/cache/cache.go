package cache

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1/series"
	"github.com/rxtech-lab/argo-breakout/internal/indicator"
	"github.com/rxtech-lab/argo-breakout/internal/types"
	"github.com/rxtech-lab/argo-breakout/pkg/errors"
	"github.com/zeebo/xxh3"
)

// Cache memoises indicator arrays for one bound series.
type Cache interface {
	// Register returns the window over fn(inputs, params), computing it at most once per fingerprint.
	Register(fn indicator.Indicator, inputs []*series.Window, params indicator.Params) (*series.Window, error)
	// Bind drops every entry and ties new windows to cursor.
	Bind(cursor *series.Cursor)
	// Reset drops every entry.
	Reset()
	// Len returns the number of cached entries.
	Len() int
}

// Fingerprint identifies one indicator call. Two calls with equal fingerprints share a result.
type Fingerprint struct {
	Indicator types.IndicatorType
	// Inputs holds the content hash and length of every input array, in order.
	Inputs string
	// Params holds the parameters sorted by name.
	Params string
}

type inputKey struct {
	hash   uint64
	length int
}

// IndicatorCache is the Cache of a backtest engine.
type IndicatorCache struct {
	cursor  *series.Cursor
	entries map[Fingerprint]*series.Window
	// hashes remembers the content key of every input window seen during setup, so a repeated
	// registration after the cursor is sealed still resolves to its entry.
	hashes map[*series.Window]inputKey
}

// NewIndicatorCache creates an unbound cache.
func NewIndicatorCache() Cache {
	return &IndicatorCache{
		cursor:  nil,
		entries: make(map[Fingerprint]*series.Window),
		hashes:  make(map[*series.Window]inputKey),
	}
}

// Bind implements Cache.
func (c *IndicatorCache) Bind(cursor *series.Cursor) {
	c.cursor = cursor
	c.Reset()
}

// Reset implements Cache.
func (c *IndicatorCache) Reset() {
	c.entries = make(map[Fingerprint]*series.Window)
	c.hashes = make(map[*series.Window]inputKey)
}

// Len implements Cache.
func (c *IndicatorCache) Len() int {
	return len(c.entries)
}

// Register implements Cache.
func (c *IndicatorCache) Register(fn indicator.Indicator, inputs []*series.Window, params indicator.Params) (*series.Window, error) {
	if c.cursor == nil {
		return nil, errors.New(errors.ErrCodeBacktestState, "indicator cache is not bound to a series")
	}

	if fn == nil {
		return nil, errors.New(errors.ErrCodeIndicatorNotFound, "indicator function is nil")
	}

	fingerprint, err := c.fingerprint(fn, inputs, params)
	if err != nil {
		return nil, err
	}

	if window, ok := c.entries[fingerprint]; ok {
		return window, nil
	}

	arrays := make([][]float64, len(inputs))

	for i, in := range inputs {
		full, err := in.Full()
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeLookAheadViolation, err, "indicator %s: reading input %d", fn.Name(), i)
		}

		arrays[i] = full
	}

	out, err := fn.Calculate(arrays, params)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "indicator %s failed", fn.Name())
	}

	if len(out) != c.cursor.Len() {
		return nil, errors.Newf(errors.ErrCodeIndicatorShape,
			"indicator %s returned %d values for a series of %d bars", fn.Name(), len(out), c.cursor.Len())
	}

	window := series.NewWindow(out, c.cursor)
	c.entries[fingerprint] = window

	return window, nil
}

func (c *IndicatorCache) fingerprint(fn indicator.Indicator, inputs []*series.Window, params indicator.Params) (Fingerprint, error) {
	keys := make([]string, len(inputs))

	for i, in := range inputs {
		key, err := c.inputKey(in)
		if err != nil {
			return Fingerprint{}, errors.Wrapf(errors.ErrCodeLookAheadViolation, err,
				"indicator %s: input %d was never seen during setup", fn.Name(), i)
		}

		keys[i] = fmt.Sprintf("%016x:%d", key.hash, key.length)
	}

	return Fingerprint{
		Indicator: fn.Name(),
		Inputs:    strings.Join(keys, ","),
		Params:    params.Canonical(),
	}, nil
}

func (c *IndicatorCache) inputKey(in *series.Window) (inputKey, error) {
	if key, ok := c.hashes[in]; ok {
		return key, nil
	}

	full, err := in.Full()
	if err != nil {
		return inputKey{}, err
	}

	key := inputKey{hash: hashValues(full), length: len(full)}
	c.hashes[in] = key

	return key, nil
}

func hashValues(values []float64) uint64 {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}

	return xxh3.Hash(buf)
}
