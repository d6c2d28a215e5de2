package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/flowforge/flowforge/model"
)

const INTEGRATION_WEBHOOK = "webhook"

// webhookAdapter posts a JSON payload to a configured URL. Any non-2xx
// response is treated as a failure.
type webhookAdapter struct {
	defaultUrl string
	client     *http.Client
}

func NewWebhookAdapter(defaultUrl string) Adapter {
	return &webhookAdapter{
		defaultUrl: defaultUrl,
		client:     &http.Client{},
	}
}

func (w *webhookAdapter) Name() string {
	return INTEGRATION_WEBHOOK
}

func (w *webhookAdapter) Validate(action string, config map[string]any) error {
	if action != "post" {
		return fmt.Errorf("unknown action %q for integration %s", action, INTEGRATION_WEBHOOK)
	}
	target := optionalString(config, "url")
	if target == "" {
		target = w.defaultUrl
	}
	if target == "" {
		return fmt.Errorf("missing required config field %q", "url")
	}
	if _, err := url.ParseRequestURI(target); err != nil {
		return fmt.Errorf("invalid webhook url %q: %w", target, err)
	}
	return nil
}

func (w *webhookAdapter) Execute(ctx context.Context, action string, config map[string]any, ec *model.ExecutionContext) (map[string]any, error) {
	if action != "post" {
		return nil, fmt.Errorf("unknown action %q for integration %s", action, INTEGRATION_WEBHOOK)
	}
	target := optionalString(config, "url")
	if target == "" {
		target = w.defaultUrl
	}
	payload, ok := config["payload"].(map[string]any)
	if !ok {
		payload = map[string]any{"text": optionalString(config, "message")}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return map[string]any{"status": resp.StatusCode, "response": string(body)}, nil
}
