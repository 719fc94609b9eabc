// Package size converts human-readable size tokens such as "4GB" or "4GiB"
// into exact byte counts.
package size

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
)

// Default keeps every part under the FAT32 4 GiB cap with some margin.
const Default = "4GB"

var (
	ErrInvalidSizeFormat = errors.New("invalid size format")
	ErrNonPositiveSize   = errors.New("size must be positive")
)

var sizeRegex = regexp.MustCompile(`^([+-]?(?:\d+(?:\.\d+)?|\.\d+))\s*([A-Za-z]*)$`)

// Unit tokens are matched lower-cased. The single-letter forms are binary,
// matching the shorthand older split tools accepted.
var multipliers = map[string]uint64{
	"":    humanize.IByte,
	"b":   humanize.IByte,
	"kb":  humanize.KByte,
	"mb":  humanize.MByte,
	"gb":  humanize.GByte,
	"tb":  humanize.TByte,
	"kib": humanize.KiByte,
	"mib": humanize.MiByte,
	"gib": humanize.GiByte,
	"tib": humanize.TiByte,
	"k":   humanize.KiByte,
	"m":   humanize.MiByte,
	"g":   humanize.GiByte,
	"t":   humanize.TiByte,
}

// Parse resolves text of the form <number><optional unit> into a byte count.
// Fractional values are allowed and rounded down to a whole byte.
func Parse(text string) (int64, error) {
	trimmed := strings.TrimSpace(text)
	matches := sizeRegex.FindStringSubmatch(trimmed)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSizeFormat, text)
	}
	multiplier, ok := multipliers[strings.ToLower(matches[2])]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidSizeFormat, matches[2])
	}
	value, ok := new(big.Rat).SetString(strings.TrimPrefix(matches[1], "+"))
	if !ok {
		return 0, fmt.Errorf("%w: bad number %q", ErrInvalidSizeFormat, matches[1])
	}
	if value.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrNonPositiveSize, text)
	}
	value.Mul(value, new(big.Rat).SetUint64(multiplier))
	bytes := new(big.Int).Quo(value.Num(), value.Denom())
	if !bytes.IsInt64() {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidSizeFormat, text)
	}
	if bytes.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %q is less than one byte", ErrNonPositiveSize, text)
	}
	return bytes.Int64(), nil
}

// Format renders a byte count with decimal units (e.g. "4.0 GB").
func Format(bytes int64) string {
	if bytes < 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return humanize.Bytes(uint64(bytes))
}

// FormatExact renders a byte count with thousands separators.
func FormatExact(bytes int64) string {
	return humanize.Comma(bytes) + " bytes"
}
