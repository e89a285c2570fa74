package notifications

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"pet-vaccinations/internal/platform/httpclient"
	"pet-vaccinations/internal/platform/taskqueue"
)

// WebhookSink publica el evento por HTTP POST. Sin URL configurada no envía nada.
type WebhookSink struct {
	url     string
	client  *httpclient.Client
	limiter *rate.Limiter
}

// NewWebhookSink: rps <= 0 desactiva el rate limit.
func NewWebhookSink(url string, client *httpclient.Client, rps float64) *WebhookSink {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return &WebhookSink{
		url:     strings.TrimSpace(url),
		client:  client,
		limiter: limiter,
	}
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Enabled() bool { return s.url != "" }

func (s *WebhookSink) Send(ctx context.Context, e Event) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook rate limit: %w", err)
	}

	err := s.client.PostJSON(ctx, s.url, map[string]string{"X-Event": e.Event}, e)
	if err == nil {
		return nil
	}
	if !httpclient.IsRetryable(err) {
		return taskqueue.Permanent(fmt.Errorf("webhook: %w", err))
	}
	return fmt.Errorf("webhook: %w", err)
}
