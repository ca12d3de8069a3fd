// Package notifier surfaces terminal fetch failures to an external channel.
// The dashboard itself renders an empty result; the webhook exists so an
// operator hears about exhausted retries without watching logs.
package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Notifier receives terminal fetch failures.
type Notifier interface {
	NotifyFetchFailure(op, symbol string, attempts int, cause error) error
}

// NoopNotifier discards all notifications.
type NoopNotifier struct{}

// NewNoopNotifier creates a notifier that does nothing.
func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (n *NoopNotifier) NotifyFetchFailure(string, string, int, error) error { return nil }

// WebhookNotifier POSTs a JSON payload to a configured URL.
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

// NewWebhookNotifier creates a webhook notifier with optional proxy support.
func NewWebhookNotifier(webhookURL, proxyURL string) *WebhookNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &WebhookNotifier{
		URL: webhookURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (n *WebhookNotifier) NotifyFetchFailure(op, symbol string, attempts int, cause error) error {
	payload := map[string]any{
		"event":     "fetch_failure",
		"operation": op,
		"symbol":    symbol,
		"attempts":  attempts,
		"error":     cause.Error(),
		"time":      time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := n.Client.Post(n.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
