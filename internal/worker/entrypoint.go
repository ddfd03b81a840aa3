package worker

import "fmt"

// ErrEntrypointNotFound reports that no model was registered under a given id
// (spec.md §4.4 "Locate a callable matching the model ID", grounded on
// original_source's python_models.run_model RuntimeError when getattr fails).
type ErrEntrypointNotFound struct {
	ModelID    string
	Entrypoint string
}

func (e *ErrEntrypointNotFound) Error() string {
	return fmt.Sprintf("unable to locate callable %q in model %q", e.ModelID, e.Entrypoint)
}

// ResolveEntrypoint locates the ModelFunc registered for modelID. entrypoint is
// carried through purely for the error message and log context; unlike
// original_source's filesystem import, nothing is loaded here since the
// function is already linked into the binary.
func ResolveEntrypoint(modelID, entrypoint string) (ModelFunc, error) {
	fn, ok := Lookup(modelID)
	if !ok {
		return nil, &ErrEntrypointNotFound{ModelID: modelID, Entrypoint: entrypoint}
	}
	return fn, nil
}
