package sender

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestNtfyPublishHeaders(t *testing.T) {
	var gotTitle, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	t.Cleanup(srv.Close)

	s := &ntfySender{
		client:    srv.Client(),
		serverURL: srv.URL,
		topic:     "trends",
		token:     "tk_secret",
		account:   1,
		sleep:     func(time.Duration) {},
	}
	if err := s.send(context.Background(), "batch content", 2, 3); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotTitle != "TrendWire (2/3)" {
		t.Errorf("Title = %q", gotTitle)
	}
	if gotAuth != "Bearer tk_secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody != "batch content" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestNtfySingleBatchTitle(t *testing.T) {
	var gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
	}))
	t.Cleanup(srv.Close)

	s := &ntfySender{client: srv.Client(), serverURL: srv.URL, topic: "t", account: 1, sleep: func(time.Duration) {}}
	if err := s.send(context.Background(), "x", 1, 1); err != nil {
		t.Fatal(err)
	}
	if gotTitle != "TrendWire" {
		t.Errorf("Title = %q", gotTitle)
	}
}

func TestNtfyRetriesOnceOn429(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		first := attempts == 1
		mu.Unlock()
		if first {
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	t.Cleanup(srv.Close)

	slept := false
	s := &ntfySender{
		client:    srv.Client(),
		serverURL: srv.URL,
		topic:     "t",
		account:   1,
		sleep:     func(time.Duration) { slept = true },
	}
	if err := s.send(context.Background(), "x", 1, 2); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if !slept {
		t.Error("retry should pause before republishing")
	}
}

func TestNtfyGivesUpAfterSecond429(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	s := &ntfySender{client: srv.Client(), serverURL: srv.URL, topic: "t", account: 1, sleep: func(time.Duration) {}}
	if err := s.send(context.Background(), "x", 1, 1); err == nil {
		t.Fatal("persistent 429 should fail")
	}
}

func TestNtfyReverseDelivery(t *testing.T) {
	s := &ntfySender{}
	if !s.reverseDelivery() {
		t.Error("ntfy should deliver newest batch first")
	}
}
