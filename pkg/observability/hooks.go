// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks at
// startup to receive events about session activity and store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach avoids import cycles (hooks are registered by main, not by
// libraries) and keeps the engine free of observability framework imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSessionHooks(&mySessionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Session().OnStrokeAppended(ctx, sessionID, key, points)
package observability

import (
	"context"
	"sync"
)

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from drawing sessions.
type SessionHooks interface {
	// OnPersonaSelected records the one-shot persona choice.
	OnPersonaSelected(ctx context.Context, sessionID, persona string)

	// OnStrokeAppended records a completed stroke with its point count.
	OnStrokeAppended(ctx context.Context, sessionID, surface string, points int)

	// OnUndo records an undo applied to the given surface.
	OnUndo(ctx context.Context, sessionID, surface string)

	// OnBudgetExceeded records a rebuild whose encoding hit the output budget.
	OnBudgetExceeded(ctx context.Context, sessionID string, encodedLen, budget int)

	// OnNotify records an outbound notification with its payload size.
	OnNotify(ctx context.Context, sessionID string, size int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from session store operations.
type StoreHooks interface {
	// OnHit records a successful session load.
	OnHit(ctx context.Context, backend string)

	// OnMiss records a load for an unknown or expired session.
	OnMiss(ctx context.Context, backend string)

	// OnSet records a session write.
	OnSet(ctx context.Context, backend string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnPersonaSelected(context.Context, string, string)      {}
func (NoopSessionHooks) OnStrokeAppended(context.Context, string, string, int)  {}
func (NoopSessionHooks) OnUndo(context.Context, string, string)                 {}
func (NoopSessionHooks) OnBudgetExceeded(context.Context, string, int, int)     {}
func (NoopSessionHooks) OnNotify(context.Context, string, int)                  {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnHit(context.Context, string)       {}
func (NoopStoreHooks) OnMiss(context.Context, string)      {}
func (NoopStoreHooks) OnSet(context.Context, string, int)  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	sessionHooks SessionHooks = NoopSessionHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	hooksMu      sync.RWMutex
)

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	sessionHooks = NoopSessionHooks{}
	storeHooks = NoopStoreHooks{}
}
