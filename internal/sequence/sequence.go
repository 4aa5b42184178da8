package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"earlywarning/internal/db"
)

const (
	DefaultLength    = 6
	DefaultPad       = "0"
	DefaultSeparator = "-"
)

// Generator issues human readable event numbers such as
// FL-2018-000033-TZA. The counter behind each distinct prefix lives in
// durable storage, so numbers stay unique across server instances and
// restart, and reset whenever the year or type code changes.
type Generator struct {
	Suffix    string
	Length    int
	Pad       string
	Separator string

	// Next increments and returns the counter for a prefix. Swappable
	// in tests; defaults to the atomic storage counter.
	Next func(ctx context.Context, key string) (int64, error)
}

func NewGenerator(suffix string) *Generator {
	return &Generator{
		Suffix:    suffix,
		Length:    DefaultLength,
		Pad:       DefaultPad,
		Separator: DefaultSeparator,
		Next:      db.NextSequence,
	}
}

// Prefix derives the counter scope for a type code at a point in time.
// An absent type code degrades to the bare year, not an error.
func Prefix(typeCode string, at time.Time) string {
	year := strconv.Itoa(at.Year())

	typeCode = strings.ToUpper(strings.TrimSpace(typeCode))
	if typeCode == "" {
		return year
	}

	return typeCode + DefaultSeparator + year
}

// Format renders a fully padded event number from its parts.
func Format(prefix string, seq int64, suffix string, length int, pad string, separator string) string {
	digits := strconv.FormatInt(seq, 10)
	if pad == "" {
		pad = DefaultPad
	}
	for len(digits) < length {
		digits = pad + digits
	}

	number := prefix + separator + digits + separator + suffix

	return strings.ToUpper(strings.TrimSpace(number))
}

// Generate allocates the next number for the given type code, keyed by
// the derived prefix.
func (g *Generator) Generate(ctx context.Context, typeCode string, at time.Time) (string, error) {
	prefix := Prefix(typeCode, at)

	seq, err := g.Next(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("allocating sequence for %s: %w", prefix, err)
	}

	return Format(prefix, seq, g.Suffix, g.Length, g.Pad, g.Separator), nil
}
