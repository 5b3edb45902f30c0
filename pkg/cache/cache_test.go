package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get(missing) should miss")
	}

	if err := c.Set(ctx, "fit:abc", []byte(`{"ll":-1}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "fit:abc")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(data) != `{"ll":-1}` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "fit:abc"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "fit:abc"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "fit:abc"); err != nil {
		t.Errorf("Delete of missing key = %v, want nil", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("x"), 0)

	if err := os.WriteFile(c.path("k"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	type entry struct {
		Name string  `json:"name"`
		AIC  float64 `json:"aic"`
	}
	if err := SetJSON(ctx, c, "k", entry{Name: "m1", AIC: 12.5}, 0); err != nil {
		t.Fatal(err)
	}
	var got entry
	ok, err := GetJSON(ctx, c, "k", &got)
	if err != nil || !ok {
		t.Fatalf("GetJSON = %v, %v", ok, err)
	}
	if got.Name != "m1" || got.AIC != 12.5 {
		t.Errorf("GetJSON = %+v", got)
	}

	_ = c.Set(ctx, "bad", []byte("{"), 0)
	if ok, err := GetJSON(ctx, c, "bad", &got); ok || err != nil {
		t.Errorf("GetJSON(bad) = %v, %v; want miss", ok, err)
	}
	if _, hit, _ := c.Get(ctx, "bad"); hit {
		t.Error("undecodable entry should be deleted")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
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

	if got := k.HTTPKey("https://example.org/a.csv"); got != "http:https://example.org/a.csv" {
		t.Errorf("HTTPKey = %s", got)
	}

	base := FitKeyOpts{Estimator: "mple(maxit=100,tol=1e-08)", Terms: []string{"edges", "isolates"}}
	k1 := k.FitKey("net1", base)
	if !strings.HasPrefix(k1, "fit:") {
		t.Errorf("FitKey = %s, want fit: prefix", k1)
	}
	if k1 != k.FitKey("net1", base) {
		t.Error("FitKey should be deterministic")
	}

	variants := []struct {
		name string
		hash string
		opts FitKeyOpts
	}{
		{"network", "net2", base},
		{"estimator", "net1", FitKeyOpts{Estimator: "mple(maxit=10,tol=1e-08)", Terms: base.Terms}},
		{"terms", "net1", FitKeyOpts{Estimator: base.Estimator, Terms: []string{"edges"}}},
		{"order", "net1", FitKeyOpts{Estimator: base.Estimator, Terms: []string{"isolates", "edges"}}},
	}
	for _, v := range variants {
		if k.FitKey(v.hash, v.opts) == k1 {
			t.Errorf("changing %s should change the key", v.name)
		}
	}

	a1 := k.ArtifactKey("net1", ArtifactKeyOpts{Format: "svg", Layout: "neato"})
	a2 := k.ArtifactKey("net1", ArtifactKeyOpts{Format: "png", Layout: "neato"})
	if a1 == a2 || !strings.HasPrefix(a1, "artifact:") {
		t.Errorf("ArtifactKey = %s, %s", a1, a2)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "rebels:")
	if got := scoped.HTTPKey("a.csv"); got != "rebels:http:a.csv" {
		t.Errorf("HTTPKey = %s", got)
	}
	if got := scoped.FitKey("h", FitKeyOpts{}); !strings.HasPrefix(got, "rebels:fit:") {
		t.Errorf("FitKey = %s, want rebels:fit: prefix", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "p:")
	if got := scoped.HTTPKey("x"); got != "p:http:x" {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}
