package fetch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func pngBytes(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		switch i % 4 {
		case 0:
			img.Pix[i] = c.R
		case 1:
			img.Pix[i] = c.G
		case 2:
			img.Pix[i] = c.B
		case 3:
			img.Pix[i] = c.A
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFetchDecodesImage(t *testing.T) {
	body := pngBytes(t, color.NRGBA{R: 255, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	f, err := New()
	if err != nil {
		t.Fatal(err)
	}
	img, err := f.Fetch(context.Background(), srv.URL+"/a.png")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("decoded bounds = %v", b)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	body := pngBytes(t, color.NRGBA{G: 255, A: 255})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	f, err := New(WithAttempts(3))
	if err != nil {
		t.Fatal(err)
	}
	f.delay = time.Millisecond

	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch() after retries error = %v", err)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hits = %d, want 3", got)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f, err := New(WithAttempts(5))
	if err != nil {
		t.Fatal(err)
	}
	f.delay = time.Millisecond

	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("Fetch() of a 404 should fail")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestFetchUsesByteCache(t *testing.T) {
	body := pngBytes(t, color.NRGBA{B: 255, A: 255})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write(body)
	}))
	defer srv.Close()

	f, err := New(WithCacheDir(t.TempDir(), time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	url := srv.URL + "/avatar.png"
	for range 3 {
		if _, err := f.Fetch(context.Background(), url); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (cache should absorb repeats)", got)
	}
}

func TestFetchExpiredCacheRefetches(t *testing.T) {
	body := pngBytes(t, color.NRGBA{R: 10, A: 255})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write(body)
	}))
	defer srv.Close()

	f, err := New(WithCacheDir(t.TempDir(), time.Nanosecond))
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2 (entry should expire)", got)
	}
}

func TestFetchRejectsNonHTTPSchemes(t *testing.T) {
	f, err := New()
	if err != nil {
		t.Fatal(err)
	}

	for _, url := range []string{"", "file:///etc/passwd", "data:image/png;base64,x"} {
		if _, err := f.Fetch(context.Background(), url); err == nil {
			t.Errorf("Fetch(%q) should be rejected", url)
		}
	}
}

func TestRetry(t *testing.T) {
	sentinel := errors.New("permanent")

	tests := []struct {
		name      string
		results   []error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{
			name:      "first attempt succeeds",
			results:   []error{nil},
			attempts:  3,
			wantCalls: 1,
		},
		{
			name:      "retryable then success",
			results:   []error{&RetryableError{Err: sentinel}, nil},
			attempts:  3,
			wantCalls: 2,
		},
		{
			name:      "non-retryable stops immediately",
			results:   []error{sentinel},
			attempts:  3,
			wantCalls: 1,
			wantErr:   sentinel,
		},
		{
			name: "exhausted attempts returns last error",
			results: []error{
				&RetryableError{Err: sentinel},
				&RetryableError{Err: sentinel},
			},
			attempts:  2,
			wantCalls: 2,
			wantErr:   sentinel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				res := tt.results[min(calls, len(tt.results)-1)]
				calls++
				return res
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("Retry() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Retry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Minute, func() error {
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
}
