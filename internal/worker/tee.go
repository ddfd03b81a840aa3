package worker

import (
	"bufio"
	"io"
)

// lineSink receives one captured line of raw subprocess output.
type lineSink func(line string)

// teeLines reads r line by line, forwarding each to sink, until r is exhausted
// or closed (spec.md §4.4 "stdout/stderr tee-and-forward"). It is meant to run
// in its own goroutine against the read end of a redirected stdout or stderr
// pipe.
func teeLines(r io.Reader, sink lineSink) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		sink(scanner.Text())
	}
}
