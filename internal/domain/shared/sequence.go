package shared

import "fmt"

// Sequence scopes name the non-commutative assignments that must be serialized:
// invoice numbers within a calendar year and auction months within a chit group.

// InvoiceYearScope is the lock scope for invoice numbering in a calendar year
func InvoiceYearScope(year int) string {
	return fmt.Sprintf("invoice-number:%d", year)
}

// ChitGroupScope is the lock scope for month advancement of one chit group
func ChitGroupScope(groupID string) string {
	return "chit-group:" + groupID
}
