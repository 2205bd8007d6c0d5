package provider

import (
	"context"
	"fmt"

	"rtconsole/cases"
	"rtconsole/config"
	"rtconsole/model"
	"rtconsole/realtime"
)

// NewProvider creates a chat provider based on configuration.
//
// Supported provider types:
//   - ProviderTypeOllama: Local Ollama server
//   - ProviderTypeOpenAI: OpenAI chat completions
//   - ProviderTypeAnthropic: Anthropic messages API
//
// The simulator needs a case catalog and is created with NewSimulator.
//
// Example:
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:   provider.ProviderTypeOpenAI,
//	    Model:  "gpt-4o-mini",
//	    APIKey: "sk-...",
//	})
func NewProvider(cfg Config) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Type {
	case ProviderTypeOllama:
		p, err = NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case ProviderTypeOpenAI:
		p, err = NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeAnthropic:
		p, err = NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
	// Typed nil pointers must not escape as non-nil interfaces.
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MapTransportKind converts a [transport].kind value to a ProviderType.
// The realtime kind has no provider and maps to "".
func MapTransportKind(kind string) ProviderType {
	switch kind {
	case config.TransportOllama:
		return ProviderTypeOllama
	case config.TransportOpenAI:
		return ProviderTypeOpenAI
	case config.TransportAnthropic:
		return ProviderTypeAnthropic
	case config.TransportSimulator:
		return ProviderTypeSimulator
	default:
		return ""
	}
}

// Dialer returns the DialFunc for the configured transport. The realtime kind
// opens the websocket; every other kind runs a Bridge over a chat provider.
// With preflight enabled the credentials are checked before anything is
// returned.
func Dialer(cfg *config.Config, catalog cases.Catalog) model.DialFunc {
	kind := cfg.Transport.Kind
	direction := cases.Direction(cfg.Cases.MatchDirection)

	return func(ctx context.Context) (model.Transport, error) {
		if kind == config.TransportRealtime {
			if cfg.Transport.Preflight {
				if err := realtime.Preflight(ctx, cfg.Transport.RealtimeURL, cfg.APIKey()); err != nil {
					return nil, err
				}
			}
			c, err := realtime.Dial(ctx, realtime.Options{
				URL:    cfg.Transport.RealtimeURL,
				Model:  cfg.Transport.RealtimeModel,
				APIKey: cfg.APIKey(),
			})
			if err != nil {
				return nil, err
			}
			return c, nil
		}

		var p Provider
		if MapTransportKind(kind) == ProviderTypeSimulator {
			p = NewSimulator(catalog, direction)
		} else {
			var err error
			p, err = NewProvider(Config{
				Type:    MapTransportKind(kind),
				BaseURL: cfg.Transport.BaseURL,
				Model:   cfg.Transport.Model,
				APIKey:  cfg.APIKey(),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create provider: %w", err)
			}
		}

		if cfg.Transport.Preflight {
			if err := p.Ping(ctx); err != nil {
				return nil, fmt.Errorf("connection failed: %w", err)
			}
		}

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] bridging %s (model %s)", kind, p.GetModel())
		}
		return NewBridge(p, BridgeOptions{}), nil
	}
}
