package worker

import "os"

// redirectStd swaps *target for the write end of a new pipe and tees every
// line read from it to sink in a background goroutine. The returned func
// restores *target and blocks until the tee goroutine has drained the pipe,
// so it's safe to call right before the process exits.
func redirectStd(target **os.File, sink lineSink) func() {
	orig := *target

	r, w, err := os.Pipe()
	if err != nil {
		return func() {}
	}
	*target = w

	done := make(chan struct{})
	go func() {
		teeLines(r, sink)
		close(done)
	}()

	return func() {
		w.Close()
		<-done
		r.Close()
		*target = orig
	}
}
