package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/flowforge/flowforge/model"
)

const INTEGRATION_EMAIL = "email"

type emailAdapter struct {
	apiKey  string
	baseUrl string
	client  *http.Client
}

func NewEmailAdapter(apiKey string, baseUrl string) (Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("email adapter: api key not configured")
	}
	if baseUrl == "" {
		baseUrl = "https://api.resend.com"
	}
	return &emailAdapter{
		apiKey:  apiKey,
		baseUrl: strings.TrimSuffix(baseUrl, "/"),
		client:  &http.Client{},
	}, nil
}

func (e *emailAdapter) Name() string {
	return INTEGRATION_EMAIL
}

func (e *emailAdapter) Validate(action string, config map[string]any) error {
	switch action {
	case "send":
		for _, field := range []string{"from", "to", "subject", "body"} {
			if _, err := requireString(config, field); err != nil {
				return err
			}
		}
		return nil
	case "send_template":
		for _, field := range []string{"from", "to", "template_id"} {
			if _, err := requireString(config, field); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown action %q for integration %s", action, INTEGRATION_EMAIL)
}

func (e *emailAdapter) Execute(ctx context.Context, action string, config map[string]any, ec *model.ExecutionContext) (map[string]any, error) {
	switch action {
	case "send":
		return e.post(ctx, map[string]any{
			"from":    optionalString(config, "from"),
			"to":      []string{optionalString(config, "to")},
			"subject": optionalString(config, "subject"),
			"html":    optionalString(config, "body"),
		})
	case "send_template":
		return e.post(ctx, map[string]any{
			"from":        optionalString(config, "from"),
			"to":          []string{optionalString(config, "to")},
			"template_id": optionalString(config, "template_id"),
			"variables":   config["variables"],
		})
	}
	return nil, fmt.Errorf("unknown action %q for integration %s", action, INTEGRATION_EMAIL)
}

func (e *emailAdapter) post(ctx context.Context, payload map[string]any) (map[string]any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseUrl+"/emails", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, string(body))
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("error decoding email provider response: %w", err)
	}
	return out, nil
}
