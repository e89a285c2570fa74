package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPostJSON_SendsBodyAndHeaders(t *testing.T) {
	var got map[string]string
	var ct, custom string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get("Content-Type")
		custom = r.Header.Get("X-Event")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(time.Second)
	err := c.PostJSON(context.Background(), srv.URL, map[string]string{"X-Event": "vaccination.expired"}, map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}
	if custom != "vaccination.expired" {
		t.Fatalf("expected custom header, got %q", custom)
	}
	if got["a"] != "b" {
		t.Fatalf("unexpected body: %#v", got)
	}
}

func TestPostJSON_StatusClassification(t *testing.T) {
	cases := []struct {
		status    int
		retryable bool
	}{
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusTooManyRequests, true},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte("nope"))
		}))

		err := New(time.Second).PostJSON(context.Background(), srv.URL, nil, struct{}{})
		srv.Close()

		var he *HTTPError
		if !errors.As(err, &he) {
			t.Fatalf("status %d: expected HTTPError, got %v", tc.status, err)
		}
		if he.Body != "nope" {
			t.Fatalf("status %d: unexpected body %q", tc.status, he.Body)
		}
		if IsRetryable(err) != tc.retryable {
			t.Fatalf("status %d: expected retryable=%v", tc.status, tc.retryable)
		}
	}
}

func TestPostJSON_TransportErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(time.Second).PostJSON(context.Background(), url, nil, struct{}{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsRetryable(err) {
		t.Fatalf("expected transport error to be retryable: %v", err)
	}
}

func TestPostJSON_InvalidURL(t *testing.T) {
	err := New(time.Second).PostJSON(context.Background(), "::nope", nil, struct{}{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if IsRetryable(err) {
		t.Fatalf("invalid url must not be retryable")
	}
}
