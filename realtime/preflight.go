package realtime

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Preflight checks the API key against the REST API behind realtimeURL before
// the socket is opened, so a bad key fails with a readable error instead of a
// bare handshake status.
func Preflight(ctx context.Context, realtimeURL, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("realtime transport requires an API key")
	}
	baseURL, err := RESTBaseURL(realtimeURL)
	if err != nil {
		return err
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)
	if _, err := client.Models.List(ctx); err != nil {
		return fmt.Errorf("API key check failed: %w", err)
	}
	return nil
}

// RESTBaseURL maps a realtime websocket URL to the REST base URL of the same
// API, e.g. wss://api.openai.com/v1/realtime to https://api.openai.com/v1.
func RESTBaseURL(realtimeURL string) (string, error) {
	u, err := url.Parse(realtimeURL)
	if err != nil {
		return "", fmt.Errorf("invalid realtime URL: %w", err)
	}
	switch u.Scheme {
	case "wss":
		u.Scheme = "https"
	case "ws":
		u.Scheme = "http"
	default:
		return "", fmt.Errorf("realtime URL must use ws or wss, got %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "/realtime")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
