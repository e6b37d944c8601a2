// Package cache holds the short-lived coordination state of the ledger:
// the sequence locks that serialize invoice numbering per year and auction
// months per chit group. Redis backs them in multi-instance deployments;
// a process-local implementation serves single instances and tests.
package cache
