package retry

import "testing"

func TestMethodSet(t *testing.T) {
	cases := []struct {
		name   string
		set    MethodSet
		method string
		want   bool
	}{
		{"default set matches GET", DefaultMethods(), "GET", true},
		{"default set matches lowercase get", DefaultMethods(), "get", true},
		{"default set rejects POST", DefaultMethods(), "POST", false},
		{"any sentinel matches everything", NewMethodSet(AnyMethod), "POST", true},
		{"any sentinel matches empty method", NewMethodSet(AnyMethod), "", true},
		{"empty set rejects empty method", NewMethodSet(), "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.set.Contains(tc.method); got != tc.want {
				t.Fatalf("Contains(%q) = %v, want %v", tc.method, got, tc.want)
			}
		})
	}
}

func TestStatusSet(t *testing.T) {
	cases := []struct {
		name   string
		set    StatusSet
		status int
		want   bool
	}{
		{"default set matches 503", DefaultStatuses(), 503, true},
		{"default set rejects 404", DefaultStatuses(), 404, false},
		{"any sentinel matches everything", NewStatusSet(AnyStatus), 404, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.set.Contains(tc.status); got != tc.want {
				t.Fatalf("Contains(%d) = %v, want %v", tc.status, got, tc.want)
			}
		})
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.Retries != DefaultRetries {
		t.Fatalf("Retries = %d, want %d", p.Retries, DefaultRetries)
	}
	if !p.RetryableMethods.Contains("GET") {
		t.Fatal("default policy should treat GET as retryable")
	}
	if !p.RetryableStatuses.Contains(429) {
		t.Fatal("default policy should treat 429 as retryable")
	}
}
