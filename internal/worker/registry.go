// Package worker implements the worker harness (spec.md §4.4): the code that
// runs inside the spawned subprocess, loads the target model, builds its
// execution context, invokes it, and reports the outcome back over the IPC
// channel.
//
// Model code is not loaded from a file at runtime the way original_source's
// python_models.py imports a module by path — a Go binary is statically linked,
// so there is nothing to import. Instead models self-register at package init
// time, the way database/sql drivers register themselves; the manifest's
// entrypoint names the Go import path a deployment links in, and Register
// binds the model id named in the manifest to the function that implements it.
package worker

import (
	"fmt"
	"sync"

	"github.com/Amr-9/modelhost/internal/hostcontext"
)

// ModelFunc is the signature every model entrypoint implements.
type ModelFunc func(ctx *hostcontext.Context) error

var (
	registryMu sync.Mutex
	registry   = map[string]ModelFunc{}
)

// Register binds modelID to fn. It is meant to be called from a model
// package's init(), mirroring database/sql.Register.
func Register(modelID string, fn ModelFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[modelID]; exists {
		panic(fmt.Sprintf("worker: model %q registered twice", modelID))
	}
	registry[modelID] = fn
}

// Lookup returns the registered ModelFunc for modelID.
func Lookup(modelID string) (ModelFunc, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	fn, ok := registry[modelID]
	return fn, ok
}
