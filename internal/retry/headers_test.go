package retry

import (
	"net/http"
	"testing"
	"time"
)

func TestParseRetryDelay(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"seconds", "5", 5 * time.Second, false},
		{"fractional seconds", "0.5", 500 * time.Millisecond, false},
		{"negative seconds clamp to zero", "-3", 0, false},
		{"http-date in the future", now.Add(10 * time.Second).Format(rfc7231Timestamp), 10 * time.Second, false},
		{"http-date in the past clamps to zero", now.Add(-10 * time.Second).Format(rfc7231Timestamp), 0, false},
		{"garbage", "not-a-delay", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRetryDelay(tc.value, now)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseRetryDelay(%q): expected error, got nil", tc.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRetryDelay(%q): unexpected error: %v", tc.value, err)
			}
			if got != tc.want {
				t.Fatalf("ParseRetryDelay(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestBackoffFromHeaders(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		header http.Header
		want   time.Duration
		wantOK bool
	}{
		{
			name:   "retry-after wins over kong headers",
			header: http.Header{"Retry-After": []string{"7"}, "X-Ratelimit-Remaining-Second": []string{"0"}},
			want:   7 * time.Second,
			wantOK: true,
		},
		{
			name:   "ratelimit-reset used when retry-after absent",
			header: http.Header{"Ratelimit-Reset": []string{"2"}},
			want:   2 * time.Second,
			wantOK: true,
		},
		{
			name:   "kong second-window backoff",
			header: http.Header{"X-Ratelimit-Remaining-Second": []string{"0"}},
			want:   500 * time.Millisecond,
			wantOK: true,
		},
		{
			name:   "kong minute-window backoff",
			header: http.Header{"X-Ratelimit-Remaining-Minute": []string{"0"}},
			want:   30 * time.Second,
			wantOK: true,
		},
		{
			name:   "kong hour-window backoff",
			header: http.Header{"X-Ratelimit-Remaining-Hour": []string{"0"}},
			want:   1800 * time.Second,
			wantOK: true,
		},
		{
			name:   "nonzero remaining does not trigger backoff",
			header: http.Header{"X-Ratelimit-Remaining-Second": []string{"5"}},
			want:   0,
			wantOK: false,
		},
		{
			name:   "no recognized headers",
			header: http.Header{},
			want:   0,
			wantOK: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := BackoffFromHeaders(tc.header, now)
			if ok != tc.wantOK {
				t.Fatalf("BackoffFromHeaders() ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("BackoffFromHeaders() = %v, want %v", got, tc.want)
			}
		})
	}
}
