// Package version holds the single source of truth for the API version string
// reported in every execution-state snapshot.
package version

// APIVersion is embedded in every snapshot returned by the HTTP facade.
const APIVersion = "2.0.0"
