package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Webhook posts each notification as JSON to a URL. Delivery failures are
// logged and dropped.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a Webhook for url.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify implements Notifier.
func (w *Webhook) Notify(ctx context.Context, n Notification) {
	if w.url == "" {
		return
	}
	if err := w.send(ctx, n); err != nil {
		zap.L().Error("notify: webhook delivery failed",
			zap.String("id", n.ID),
			zap.Error(err),
		)
	}
}

func (w *Webhook) send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return eris.Wrap(err, "notify: marshal notification")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "notify: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "notify: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
