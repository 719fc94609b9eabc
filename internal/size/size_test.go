package size

import (
	"errors"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		text     string
		expected int64
	}{
		{"4GB", 4_000_000_000},
		{"4GiB", 4_294_967_296},
		{"512MB", 512_000_000},
		{"1.5GB", 1_500_000_000},
		{"4gb", 4_000_000_000},
		{"4gib", 4_294_967_296},
		{"  2 MiB  ", 2 * 1024 * 1024},
		{"1024", 1024},
		{"1024B", 1024},
		{"1KB", 1000},
		{"1KiB", 1024},
		{"1TB", 1_000_000_000_000},
		{"1TiB", 1 << 40},
		{"2G", 2 << 30},
		{"512M", 512 << 20},
		{"1.0000000001KB", 1000},
		{".5KiB", 512},
		{"+3MB", 3_000_000},
	}
	for _, c := range cases {
		result, err := Parse(c.text)
		if err != nil {
			t.Fatalf("%q: unexpected error: %s", c.text, err)
		}
		if result != c.expected {
			t.Fatalf("%q: Expected %d, got %d", c.text, c.expected, result)
		}
	}
}

func TestParse_NonPositive(t *testing.T) {
	for _, text := range []string{"0", "-1GB", "0GB", "-0", "0.0001B", "0.1"} {
		_, err := Parse(text)
		if !errors.Is(err, ErrNonPositiveSize) {
			t.Fatalf("%q: Expected ErrNonPositiveSize, got %v", text, err)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, text := range []string{"abc", "", "   ", "GB", "4XB", "4 G B", "1.2.3GB", "4GBs", "1e3", "99999999999TB"} {
		_, err := Parse(text)
		if !errors.Is(err, ErrInvalidSizeFormat) {
			t.Fatalf("%q: Expected ErrInvalidSizeFormat, got %v", text, err)
		}
	}
}

func TestFormat(t *testing.T) {
	if Format(4_000_000_000) != "4.0 GB" {
		t.Fatalf("Expected 4.0 GB, got %s", Format(4_000_000_000))
	}
	if Format(-5) != "-5 B" {
		t.Fatalf("Expected -5 B, got %s", Format(-5))
	}
	if FormatExact(10_000_000) != "10,000,000 bytes" {
		t.Fatalf("Expected 10,000,000 bytes, got %s", FormatExact(10_000_000))
	}
}

func TestDefaultParses(t *testing.T) {
	result, err := Parse(Default)
	if err != nil || result != 4_000_000_000 {
		t.Fatalf("Default %q should parse to 4000000000, got %d (%v)", Default, result, err)
	}
}
