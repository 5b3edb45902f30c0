package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		flag, dir, name, ext string
		want                 string
	}{
		{"out.json", "/proj", "rebels", ".report.json", "out.json"},
		{"", "/proj", "rebels", ".report.json", "/proj/rebels.report.json"},
		{"", "", "rebels", ".svg", "rebels.svg"},
	}

	for _, tt := range tests {
		if got := outputPath(tt.flag, tt.dir, tt.name, tt.ext); got != filepath.FromSlash(tt.want) {
			t.Errorf("outputPath(%q, %q, %q, %q) = %q, want %q", tt.flag, tt.dir, tt.name, tt.ext, got, tt.want)
		}
	}
}
