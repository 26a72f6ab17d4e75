// Package cache provides the byte-level caches behind cardstage's pipeline
// and server.
//
// # Backends
//
//   - [FileCache]: JSON files under the user cache directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for `cardstage serve`
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// A [Keyer] derives stable keys for the three cached artifacts: fetched
// rows, layout target sets and rendered frames. Options that change the
// result are hashed into the key, so changing any of them is a miss.
// [ScopedKeyer] prefixes every key for per-user isolation.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Default TTLs per artifact.
const (
	TTLRows   = 10 * time.Minute
	TTLLayout = 30 * 24 * time.Hour
	TTLFrame  = 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// RowsKey identifies the rows fetched from a source.
	RowsKey(source string, opts RowsKeyOpts) string

	// LayoutKey identifies a layout target set for an item count.
	LayoutKey(mode string, count int) string

	// FrameKey identifies a rendered frame of a particular row set.
	FrameKey(rowsHash string, opts FrameKeyOpts) string
}

// RowsKeyOpts are the fetch parameters that change which rows come back.
type RowsKeyOpts struct {
	Location  string `json:"location"` // spreadsheet ID, file path or collection
	Range     string `json:"range,omitempty"`
	Principal string `json:"principal,omitempty"` // whose credentials were used
}

// FrameKeyOpts are the render parameters that change a frame's bytes.
type FrameKeyOpts struct {
	Modes    []string      `json:"modes"`
	Format   string        `json:"format"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Seed     uint64        `json:"seed"`
	Duration time.Duration `json:"duration"`
	FPS      int           `json:"fps,omitempty"`
	Photos   bool          `json:"photos,omitempty"`
	Title    string        `json:"title,omitempty"`
	Scale    float64       `json:"scale,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RowsKey returns "rows:<hash>".
func (DefaultKeyer) RowsKey(source string, opts RowsKeyOpts) string {
	return hashKey("rows", source, opts)
}

// LayoutKey returns "layout:<mode>:<count>". Layouts depend on nothing else.
func (DefaultKeyer) LayoutKey(mode string, count int) string {
	return "layout:" + mode + ":" + itoa(count)
}

// FrameKey returns "frame:<hash>".
func (DefaultKeyer) FrameKey(rowsHash string, opts FrameKeyOpts) string {
	return hashKey("frame", rowsHash, opts)
}

// GetJSON reads key and unmarshals it into v. Undecodable entries are
// deleted and reported as a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
