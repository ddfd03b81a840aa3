package manifest

import (
	"encoding/json"
	"fmt"
)

// MissingRequiredPorts returns the names of required ports declared on model that have no
// binding present in bound. The supervisor records these as a warning log entry on the job
// rather than failing it (spec.md §4.7).
func MissingRequiredPorts(model ModelDecl, bound map[string]json.RawMessage) []string {
	var missing []string
	for _, p := range model.Ports {
		if !p.Required {
			continue
		}
		if _, ok := bound[p.Name]; !ok {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

// MissingPortsWarning formats the missing-required-ports list into the single warning log
// message the supervisor appends to the job's log (spec.md §8 scenario 2: must mention "Missing", "required",
// "port", and each missing name).
func MissingPortsWarning(missing []string) string {
	return fmt.Sprintf("Missing required port(s): %v. The model may fail if it accesses them without a default.", missing)
}
