package worker

import (
	"strings"
	"testing"
)

func TestSanitizeExceptionDataNil(t *testing.T) {
	if got := SanitizeExceptionData(nil); got != nil {
		t.Fatalf("SanitizeExceptionData(nil) = %v, want nil", got)
	}
}

func TestSanitizeExceptionDataRoundTrips(t *testing.T) {
	in := map[string]any{"code": "boom", "retryable": true}
	got := SanitizeExceptionData(in)

	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("SanitizeExceptionData(%v) = %T, want map[string]any", in, got)
	}
	if m["code"] != "boom" || m["retryable"] != true {
		t.Fatalf("SanitizeExceptionData(%v) = %v, want round-tripped copy", in, m)
	}
}

func TestSanitizeExceptionDataOversizedObjectProducesLiteralPreview(t *testing.T) {
	big := make(map[string]any, 2)
	big["small"] = "ok"
	big["payload"] = strings.Repeat("x", maxErrDataLen)

	got := SanitizeExceptionData(big)
	m, ok := got.(map[string]string)
	if !ok {
		t.Fatalf("SanitizeExceptionData(oversized) = %T, want map[string]string", got)
	}

	msg := m["error"]
	if !strings.Contains(msg, "Data preview:") {
		t.Fatalf("error message %q missing preview", msg)
	}

	idx := strings.Index(msg, "Data preview: ")
	preview := msg[idx+len("Data preview: "):]
	if len(preview) != errDataPreviewLen {
		t.Fatalf("preview length = %d, want exactly %d (literal substring of the serialized payload)", len(preview), errDataPreviewLen)
	}
	if !strings.HasPrefix(preview, `{"`) {
		t.Fatalf("preview %q does not look like the start of the serialized JSON object", preview)
	}
}

func TestSanitizeExceptionDataOversizedScalarPreviewIsTruncated(t *testing.T) {
	huge := strings.Repeat("y", maxErrDataLen+1)

	got := SanitizeExceptionData(huge)
	m, ok := got.(map[string]string)
	if !ok {
		t.Fatalf("SanitizeExceptionData(huge string) = %T, want map[string]string", got)
	}

	idx := strings.Index(m["error"], "Data preview: ")
	if idx < 0 {
		t.Fatalf("error message %q missing preview marker", m["error"])
	}
	preview := m["error"][idx+len("Data preview: "):]
	if len(preview) > errDataPreviewLen {
		t.Fatalf("preview length = %d, want <= %d", len(preview), errDataPreviewLen)
	}
}

func TestSanitizeExceptionDataUnserializableValue(t *testing.T) {
	got := SanitizeExceptionData(make(chan int))
	m, ok := got.(map[string]string)
	if !ok {
		t.Fatalf("SanitizeExceptionData(chan) = %T, want map[string]string", got)
	}
	if !strings.Contains(m["error"], "could not be serialised") {
		t.Fatalf("error message %q missing serialization-failure text", m["error"])
	}
}
