package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/flowforge/flowforge/model"
)

const INTEGRATION_PAYMENT = "payment"

// paymentAdapter maps node configurations onto one-shot calls against a
// Stripe-style REST API. Requests are form encoded and authenticated
// with the secret key from process configuration.
type paymentAdapter struct {
	apiKey  string
	baseUrl string
	client  *http.Client
}

func NewPaymentAdapter(apiKey string, baseUrl string) (Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("payment adapter: api key not configured")
	}
	if baseUrl == "" {
		baseUrl = "https://api.stripe.com"
	}
	return &paymentAdapter{
		apiKey:  apiKey,
		baseUrl: strings.TrimSuffix(baseUrl, "/"),
		client:  &http.Client{},
	}, nil
}

func (p *paymentAdapter) Name() string {
	return INTEGRATION_PAYMENT
}

func (p *paymentAdapter) Validate(action string, config map[string]any) error {
	switch action {
	case "find_customer":
		_, err := requireString(config, "email")
		return err
	case "create_customer":
		_, err := requireString(config, "email")
		return err
	case "create_subscription":
		if _, err := requireString(config, "customer_id"); err != nil {
			return err
		}
		_, err := requireString(config, "price_id")
		return err
	case "create_invoice":
		_, err := requireString(config, "customer_id")
		return err
	}
	return fmt.Errorf("unknown action %q for integration %s", action, INTEGRATION_PAYMENT)
}

func (p *paymentAdapter) Execute(ctx context.Context, action string, config map[string]any, ec *model.ExecutionContext) (map[string]any, error) {
	switch action {
	case "find_customer":
		return p.findCustomer(ctx, config)
	case "create_customer":
		return p.postForm(ctx, "/v1/customers", url.Values{
			"email": {optionalString(config, "email")},
			"name":  {optionalString(config, "name")},
		})
	case "create_subscription":
		return p.postForm(ctx, "/v1/subscriptions", url.Values{
			"customer":        {optionalString(config, "customer_id")},
			"items[0][price]": {optionalString(config, "price_id")},
		})
	case "create_invoice":
		return p.postForm(ctx, "/v1/invoices", url.Values{
			"customer": {optionalString(config, "customer_id")},
		})
	}
	return nil, fmt.Errorf("unknown action %q for integration %s", action, INTEGRATION_PAYMENT)
}

func (p *paymentAdapter) findCustomer(ctx context.Context, config map[string]any) (map[string]any, error) {
	email := optionalString(config, "email")
	body, err := p.do(ctx, http.MethodGet, "/v1/customers?email="+url.QueryEscape(email)+"&limit=1", "")
	if err != nil {
		return nil, err
	}
	customers, _ := body["data"].([]any)
	if len(customers) == 0 {
		return map[string]any{"found": false}, nil
	}
	customer, _ := customers[0].(map[string]any)
	return map[string]any{"found": true, "customer": customer}, nil
}

func (p *paymentAdapter) postForm(ctx context.Context, path string, form url.Values) (map[string]any, error) {
	return p.do(ctx, http.MethodPost, path, form.Encode())
}

func (p *paymentAdapter) do(ctx context.Context, method string, path string, body string) (map[string]any, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseUrl+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode, string(data))
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("error decoding payment provider response: %w", err)
	}
	return out, nil
}
