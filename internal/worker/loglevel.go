package worker

import "github.com/Amr-9/modelhost/pkg/jobapi"

var levelOrder = map[jobapi.LogLevel]int{
	jobapi.Debug:    0,
	jobapi.Info:     1,
	jobapi.Warning:  2,
	jobapi.Error:    3,
	jobapi.Critical: 4,
}

// CompareLevels reports a negative, zero, or positive number as a is below,
// equal to, or above b in severity (grounded on original_source's
// log_levels.compare, which indexes a fixed level tuple).
func CompareLevels(a, b jobapi.LogLevel) int {
	return levelOrder[a] - levelOrder[b]
}

// ResolveLogLevel decides the effective log level for a job: the request's
// logLevel field takes precedence over the host's configured default (resolved
// Open Question, SPEC_FULL.md §D.2), falling back to INFO if neither is set.
func ResolveLogLevel(requestLevel, hostDefault jobapi.LogLevel) jobapi.LogLevel {
	if _, ok := levelOrder[requestLevel]; ok {
		return requestLevel
	}
	if _, ok := levelOrder[hostDefault]; ok {
		return hostDefault
	}
	return jobapi.Info
}
