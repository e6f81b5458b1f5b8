package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"tutor/models"
	"tutor/services/metrics"
)

const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

var errEmptyResponse = errors.New("empty response from model")

type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

func (r Request) withDefaults() Request {
	if r.MaxTokens <= 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	if r.Temperature <= 0 {
		r.Temperature = DefaultTemperature
	}
	return r
}

type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Chain tries its providers in order and returns the first non-empty reply.
type Chain struct {
	providers []Provider
	metrics   *metrics.Metrics
}

func NewChain(m *metrics.Metrics, providers ...Provider) *Chain {
	configured := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			configured = append(configured, p)
		}
	}
	return &Chain{providers: configured, metrics: m}
}

func (c *Chain) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

func (c *Chain) Len() int {
	return len(c.providers)
}

func (c *Chain) Generate(ctx context.Context, req Request) (string, error) {
	if len(c.providers) == 0 {
		return "", fmt.Errorf("%w: no generation provider configured", models.ErrGeneration)
	}

	req = req.withDefaults()
	var errs []error

	for i, p := range c.providers {
		if i > 0 {
			log.Printf("[WARN] Falling back to generation provider %s", p.Name())
		}

		text, err := p.Generate(ctx, req)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errEmptyResponse
		}
		if err == nil {
			return text, nil
		}

		log.Printf("[ERROR] Generation provider %s failed: %v", p.Name(), err)
		c.metrics.GenerationFailed(p.Name())
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("%w: %w", models.ErrGeneration, errors.Join(errs...))
}
