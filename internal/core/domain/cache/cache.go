// Package cache holds the domain rules shared by every read-through cache
// user: the failure taxonomy, the default TTL and the key construction policy.
package cache

import (
	"errors"
	"time"

	"github.com/avatarctic/finance-tracker/internal/core/domain/report"
	"github.com/google/uuid"
)

// DefaultTTL is applied to every cache write.
const DefaultTTL = 3600 * time.Second

var (
	// ErrStoreUnavailable means the store connection is not open, was closed, or dropped.
	ErrStoreUnavailable = errors.New("cache store unavailable")
	// ErrStoreRead is a protocol-level failure on GET.
	ErrStoreRead = errors.New("cache store read failed")
	// ErrStoreWrite is a protocol-level failure on SETEX.
	ErrStoreWrite = errors.New("cache store write failed")
	// ErrProducer wraps a failure of the caller-supplied computation.
	ErrProducer = errors.New("cache producer failed")
	// ErrSerialization means a value could not be encoded to, or decoded from, JSON text.
	ErrSerialization = errors.New("cache value serialization failed")
	// ErrEmptyKey rejects calls without a key.
	ErrEmptyKey = errors.New("cache key must not be empty")
)

const (
	NamespaceExpenses = "expenses"
	NamespaceReports  = "reports"
)

// ExpensesKey is the key of a user's cached expense listing.
func ExpensesKey(userID uuid.UUID) string {
	return NamespaceExpenses + ":" + userID.String()
}

// ReportKey is the key of a user's cached report. The key names the period
// kind only, not the month or year it was computed for.
func ReportKey(userID uuid.UUID, p report.Period) string {
	return NamespaceReports + ":" + userID.String() + ":" + p.String()
}
