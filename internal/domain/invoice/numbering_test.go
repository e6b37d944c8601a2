package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAndParseNumber(t *testing.T) {
	assert.Equal(t, "INV-2026-0007", FormatNumber(2026, 7))
	assert.Equal(t, "INV-2026-12345", FormatNumber(2026, 12345))

	tests := []struct {
		in       string
		year     int
		seq      int
		expectOK bool
	}{
		{"INV-2026-0007", 2026, 7, true},
		{"INV-2025-12345", 2025, 12345, true},
		{"INV-2026-007", 0, 0, false},
		{"INV-26-0007", 0, 0, false},
		{"BILL-2026-0007", 0, 0, false},
		{"INV-2026-0000", 0, 0, false},
		{"INV-2026-00x1", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			year, seq, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.expectOK, ok)
			assert.Equal(t, tt.year, year)
			assert.Equal(t, tt.seq, seq)
		})
	}
}

func TestAllocator(t *testing.T) {
	existing := []string{"INV-2026-0003", "INV-2026-0010", "INV-2025-0099", "garbage"}
	a := NewAllocator(existing)

	assert.Equal(t, 10, a.Max(2026))
	assert.Equal(t, "INV-2026-0011", a.Next(2026))
	assert.Equal(t, "INV-2026-0012", a.Next(2026))
	assert.Equal(t, "INV-2025-0100", a.Next(2025))
	assert.Equal(t, "INV-2027-0001", a.Next(2027))
}
