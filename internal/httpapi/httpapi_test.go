package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Amr-9/modelhost/internal/manifest"
	"github.com/Amr-9/modelhost/internal/supervisor"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

func TestBindingShapeObject(t *testing.T) {
	got := bindingShape([]byte(`{"modelId": 5, "debug": true}`))
	want := "{modelId:Number, debug:True}"
	if got != want {
		t.Fatalf("bindingShape() = %q, want %q", got, want)
	}
}

func TestBindingShapeNonObject(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`[1,2,3]`, "JSON"},
		{`"just a string"`, "String"},
		{`42`, "Number"},
		{`null`, "Null"},
	}
	for _, tc := range cases {
		if got := bindingShape([]byte(tc.body)); got != tc.want {
			t.Fatalf("bindingShape(%q) = %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestBindingShapeEmptyObject(t *testing.T) {
	if got := bindingShape([]byte(`{}`)); got != "{}" {
		t.Fatalf("bindingShape({}) = %q, want {}", got)
	}
}

// A malformed POST / body falls back to an empty object (spec.md §4.7 "parse
// JSON (empty object on parse failure)") rather than being rejected with a
// generic "invalid JSON body" error — it then fails the modelId check with
// its own distinct error message.
func TestHandlePostMalformedBodyFallsBackToEmptyObject(t *testing.T) {
	h := New(supervisor.New(&manifest.Manifest{}, jobapi.Info))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not valid json`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), `required property "modelId" is missing`) {
		t.Fatalf("body = %q, want the modelId-missing error, not a raw JSON-parse error", w.Body.String())
	}
}
