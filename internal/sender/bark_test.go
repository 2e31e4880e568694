package sender

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSplitBarkURL(t *testing.T) {
	endpoint, key, err := splitBarkURL("https://api.day.app/AbCdEf123")
	if err != nil {
		t.Fatalf("splitBarkURL: %v", err)
	}
	if endpoint != "https://api.day.app/push" {
		t.Errorf("endpoint = %q", endpoint)
	}
	if key != "AbCdEf123" {
		t.Errorf("key = %q", key)
	}

	if _, _, err := splitBarkURL("https://api.day.app/"); err == nil {
		t.Error("missing device key should fail")
	}
}

func TestBarkSend(t *testing.T) {
	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"code":200}`))
	}))
	t.Cleanup(srv.Close)

	s := &barkSender{client: srv.Client(), rawURL: srv.URL + "/devkey42", account: 1}
	if err := s.send(context.Background(), "**bold** and [link](https://e.com)", 2, 3); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPath != "/push" {
		t.Errorf("path = %q", gotPath)
	}

	var payload map[string]any
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatal(err)
	}
	if payload["device_key"] != "devkey42" {
		t.Errorf("device_key = %v", payload["device_key"])
	}
	if payload["title"] != "TrendWire (2/3)" {
		t.Errorf("title = %v", payload["title"])
	}
	body := payload["body"].(string)
	if body != "bold and link https://e.com" {
		t.Errorf("markdown should be stripped: %q", body)
	}
}

func TestBarkErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":400,"message":"device not found"}`))
	}))
	t.Cleanup(srv.Close)

	s := &barkSender{client: srv.Client(), rawURL: srv.URL + "/k", account: 1}
	if err := s.send(context.Background(), "x", 1, 1); err == nil {
		t.Fatal("expected error for non-200 code")
	}
}

func TestBarkReverseDelivery(t *testing.T) {
	s := &barkSender{}
	if !s.reverseDelivery() {
		t.Error("bark should deliver newest batch first")
	}
}
