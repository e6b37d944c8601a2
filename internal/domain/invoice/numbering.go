package invoice

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberPrefix starts every invoice number
const NumberPrefix = "INV"

// FormatNumber renders INV-<year>-<4-digit sequence>
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", NumberPrefix, year, seq)
}

// ParseNumber splits an invoice number into year and sequence
func ParseNumber(number string) (year, seq int, ok bool) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != NumberPrefix || len(parts[1]) != 4 || len(parts[2]) < 4 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(parts[2])
	if err != nil || seq < 1 {
		return 0, 0, false
	}
	return year, seq, true
}

// Allocator hands out numbers across several years from one existing set.
// It is not safe for concurrent use; callers hold the per-year sequence lock.
type Allocator struct {
	next map[int]int
}

// NewAllocator seeds an allocator from existing invoice numbers
func NewAllocator(existing []string) *Allocator {
	a := &Allocator{next: make(map[int]int)}
	for _, n := range existing {
		if y, seq, ok := ParseNumber(n); ok && seq >= a.next[y] {
			a.next[y] = seq
		}
	}
	return a
}

// Max returns the highest sequence handed out or seen for year, 0 if none
func (a *Allocator) Max(year int) int {
	return a.next[year]
}

// Next returns the next number for year
func (a *Allocator) Next(year int) string {
	a.next[year]++
	return FormatNumber(year, a.next[year])
}
