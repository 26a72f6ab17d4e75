package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	key := NewDefaultKeyer().RowsKey("sheets", RowsKeyOpts{Location: "1AbC", Range: "Data_Template!A2:F"})
	if err := SetJSON(ctx, c, key, [][]string{{"Ada", "", "36"}}, time.Hour); err != nil {
		t.Fatalf("SetJSON error: %v", err)
	}

	var rows [][]string
	hit, err := GetJSON(ctx, c, key, &rows)
	if err != nil {
		t.Fatalf("GetJSON error: %v", err)
	}
	if hit || rows != nil {
		t.Errorf("GetJSON = %v, %v; want a miss with no rows", hit, rows)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "rows:abc", []byte(`[["Ada"]]`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "rows:abc")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if string(data) != `[["Ada"]]` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "rows:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "rows:abc"); ok {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of a missing key = %v, want nil", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "k", []byte("v"), time.Nanosecond)
	time.Sleep(2 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry should miss")
	}

	_ = c.Set(ctx, "forever", []byte("v"), 0)
	if _, ok, _ := c.Get(ctx, "forever"); !ok {
		t.Error("entry without ttl should hit")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, ok, _ := c.Get(ctx, k); ok {
			t.Errorf("%q survived Clear", k)
		}
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	in := [][]string{{"Ada", "", "36"}, {"Bo"}}
	if err := SetJSON(ctx, c, "rows", in, time.Hour); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var out [][]string
	ok, err := GetJSON(ctx, c, "rows", &out)
	if err != nil || !ok {
		t.Fatalf("GetJSON = %v, %v", ok, err)
	}
	if len(out) != 2 || out[0][0] != "Ada" {
		t.Errorf("GetJSON = %v", out)
	}

	_ = c.Set(ctx, "junk", []byte("{not json"), time.Hour)
	ok, err = GetJSON(ctx, c, "junk", &out)
	if ok || err != nil {
		t.Errorf("GetJSON(junk) = %v, %v; want miss", ok, err)
	}
	if _, hit, _ := c.Get(ctx, "junk"); hit {
		t.Error("undecodable entry should be deleted")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	r1 := k.RowsKey("sheets", RowsKeyOpts{Location: "sheet-1", Range: "Data_Template!A2:F"})
	r2 := k.RowsKey("sheets", RowsKeyOpts{Location: "sheet-1", Range: "Data_Template!A2:G"})
	if r1 == r2 {
		t.Error("Different ranges should produce different keys")
	}
	if !strings.HasPrefix(r1, "rows:") {
		t.Errorf("RowsKey = %q, want rows: prefix", r1)
	}

	if got := k.LayoutKey("helix", 42); got != "layout:helix:42" {
		t.Errorf("LayoutKey = %q", got)
	}

	f1 := k.FrameKey("abc", FrameKeyOpts{Format: "svg", Width: 800})
	f2 := k.FrameKey("abc", FrameKeyOpts{Format: "png", Width: 800})
	if f1 == f2 {
		t.Error("Different FrameKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "user:123:")

	if got := scoped.LayoutKey("grid", 3); got != "user:123:layout:grid:3" {
		t.Errorf("ScopedKeyer LayoutKey = %q", got)
	}
	rows := scoped.RowsKey("csv", RowsKeyOpts{Location: "people.csv"})
	if !strings.HasPrefix(rows, "user:123:rows:") {
		t.Errorf("ScopedKeyer RowsKey should be prefixed: %s", rows)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if got := scoped.LayoutKey("table", 1); got != "prefix:layout:table:1" {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url", ""); err == nil {
		t.Error("NewRedisCache should reject a malformed url")
	}
}

func TestRedisCacheKeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	c := NewRedisCacheFromClient(client, "cardstage:")
	defer c.Close()

	if got := c.key("rows:x"); got != "cardstage:rows:x" {
		t.Errorf("key = %q", got)
	}
	if c.Client() != client {
		t.Error("Client() should return the wrapped client")
	}
}
