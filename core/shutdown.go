package core

import (
	"context"
)

// ShutdownFunc is the function signature for cleanup handlers run when a command exits.
// Each function receives a context that may carry a deadline and returns an error if
// cleanup fails. Implementations should be idempotent.
//
//	var ledgerShutdown ShutdownFunc = func(ctx context.Context) error {
//	    return ledger.Close()
//	}
type ShutdownFunc func(ctx context.Context) error
