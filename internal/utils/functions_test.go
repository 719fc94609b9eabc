package utils

import (
	"path/filepath"
	"testing"
)

func TestIsSupportedFile(t *testing.T) {
	for _, path := range []string{"game.nsp", "GAME.NSZ", "/dumps/cart.Xci"} {
		if !IsSupportedFile(path) {
			t.Errorf("Expected %s to be supported", path)
		}
	}
	for _, path := range []string{"game.nsp.00", "readme.txt", "nsp", ""} {
		if IsSupportedFile(path) {
			t.Errorf("Expected %s to be rejected", path)
		}
	}
}

func TestDefaultOutputDir(t *testing.T) {
	dir, err := DefaultOutputDir("/dumps/game.nsp", "")
	if err != nil || dir != "/dumps" {
		t.Fatalf("Expected /dumps, got %q (%v)", dir, err)
	}
	dir, err = DefaultOutputDir("/dumps/game.nsp", "out")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !filepath.IsAbs(dir) || filepath.Base(dir) != "out" {
		t.Fatalf("Expected absolute path ending in out, got %q", dir)
	}
}
