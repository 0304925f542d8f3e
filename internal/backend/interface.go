package backend

import (
	"context"
	"time"

	"spendwise/internal/adapters"
	"spendwise/internal/amqp"
	"spendwise/internal/limits"
	"spendwise/internal/services"
	"spendwise/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the wired stores and services for one backend.
type BackendResult struct {
	KV        storage.KV
	Expenses  *adapters.ExpenseStore
	Limits    *limits.Manager
	Service   *services.ExpenseService
	Dashboard *services.Dashboard
	// Alerts is nil when AMQP is not configured or unreachable.
	Alerts  *amqp.Client
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory specific
	SeedFile string

	// Read cache, disabled when CacheSize is 0
	CacheSize int
	CacheTTL  time.Duration

	// Optional alert publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Location anchors period windows. Nil means time.Local.
	Location *time.Location
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
