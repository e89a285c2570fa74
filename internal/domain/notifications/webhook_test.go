package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pet-vaccinations/internal/platform/httpclient"
	"pet-vaccinations/internal/platform/taskqueue"
)

func sampleEvent() Event {
	return Event{
		Event:               EventVaccinationExpired,
		PetID:               "pet-1",
		VaccinationRecordID: "rec-1",
		PetName:             "Rex",
		VaccinationName:     "Rabies",
		ExpiryDate:          "2025-06-01",
		Timestamp:           "2025-06-15T09:00:00Z",
		PetBreed:            "Labrador",
	}
}

func TestWebhookSink_PostsPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Event") != EventVaccinationExpired {
			t.Errorf("X-Event = %q", r.Header.Get("X-Event"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSink(srv.URL, httpclient.New(time.Second), 0)
	if err := s.Send(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got["event"] != "vaccination.expired" || got["pet_name"] != "Rex" || got["expiry_date"] != "2025-06-01" {
		t.Fatalf("unexpected payload: %v", got)
	}
	if _, ok := got["PetBreed"]; ok {
		t.Fatalf("log-only fields must not be serialized: %v", got)
	}
}

func TestWebhookSink_DisabledWithoutURL(t *testing.T) {
	s := NewWebhookSink("  ", httpclient.New(time.Second), 0)
	if s.Enabled() {
		t.Fatalf("expected disabled sink")
	}
	if err := s.Send(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("disabled sink should be a no-op, got %v", err)
	}
}

func TestWebhookSink_ClassifiesErrors(t *testing.T) {
	var status atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	s := NewWebhookSink(srv.URL, httpclient.New(time.Second), 0)

	status.Store(http.StatusServiceUnavailable)
	err := s.Send(context.Background(), sampleEvent())
	if err == nil || taskqueue.IsPermanent(err) {
		t.Fatalf("5xx should be retryable, got %v", err)
	}

	status.Store(http.StatusBadRequest)
	err = s.Send(context.Background(), sampleEvent())
	if err == nil || !taskqueue.IsPermanent(err) {
		t.Fatalf("4xx should be permanent, got %v", err)
	}
}

func TestWebhookSink_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewWebhookSink(srv.URL, httpclient.New(time.Second), 0.001)
	if err := s.Send(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("first send: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.Send(ctx, sampleEvent()); err == nil {
		t.Fatalf("expected rate limit wait to fail with short deadline")
	}
}
