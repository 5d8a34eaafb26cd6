// Package advice asks a text generation model for short, stingy budgeting
// commentary about one month of the ledger.
//
// Advise never fails: provider problems are logged and turned into one of
// the fixed fallback messages.
package advice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"cofrinho/internal/cache"
	"cofrinho/internal/core"
	"cofrinho/internal/log"
	"cofrinho/internal/metrics"
)

const DefaultTemperature = 0.9

const (
	// FallbackMessage is shown when the provider call fails.
	FallbackMessage = "O sistema caiu, mas o juros do carro não para! Tente mais tarde."
	// EmptyMessage is shown when the provider answers with no text.
	EmptyMessage = "Gastou o dinheiro do cruzeiro em bala? Tenta de novo!"
)

// Outcomes reported to metrics and logs.
const (
	OutcomeOK       = "ok"
	OutcomeCanned   = "canned"
	OutcomeCached   = "cached"
	OutcomeEmpty    = "empty"
	OutcomeFallback = "fallback"
	OutcomeStale    = "stale"
)

// ErrDisabled is returned by Disabled for every call.
var ErrDisabled = errors.New("advice provider disabled")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// Disabled is the Generator used when no provider is configured.
type Disabled struct{}

func (Disabled) Generate(context.Context, string, float64) (string, error) {
	return "", ErrDisabled
}

// CannedMessage is returned for a month without entries, without calling
// the provider.
func CannedMessage(monthName string) string {
	return fmt.Sprintf("Mês de %s e você ainda não anotou nada? O relógio tá correndo e o dinheiro tá sumindo! Como diz o Julius: 'Se eu não comprar nada, o desconto é maior!'", monthName)
}

type Collaborator struct {
	gen         Generator
	provider    string
	temperature float64
	household   core.Household
	cache       cache.Cache[string]
	metrics     *metrics.Metrics
	logger      *log.Logger
}

type Option func(*Collaborator)

func WithTemperature(t float64) Option {
	return func(c *Collaborator) { c.temperature = t }
}

func WithHousehold(h core.Household) Option {
	return func(c *Collaborator) { c.household = h }
}

// WithCache reuses answers for identical month snapshots.
func WithCache(cc cache.Cache[string]) Option {
	return func(c *Collaborator) { c.cache = cc }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Collaborator) { c.metrics = m }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Collaborator) { c.logger = l.WithComponent(log.ComponentAdvice) }
}

// WithProvider sets the provider label used in metrics and logs.
func WithProvider(name string) Option {
	return func(c *Collaborator) { c.provider = name }
}

// New builds a Collaborator. A nil gen behaves like Disabled.
func New(gen Generator, opts ...Option) *Collaborator {
	if gen == nil {
		gen = Disabled{}
	}
	c := &Collaborator{
		gen:         gen,
		provider:    "none",
		temperature: DefaultTemperature,
		household:   core.DefaultHousehold(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Advise returns commentary for the entries of monthName. A call whose
// context was cancelled is not counted: the caller that cancelled it
// records the outcome, such as OutcomeStale.
func (c *Collaborator) Advise(ctx context.Context, entries []core.Entry, monthName string) string {
	text, outcome := c.advise(ctx, entries, monthName)
	if !errors.Is(ctx.Err(), context.Canceled) {
		c.metrics.IncAdvice(outcome)
	}
	return text
}

func (c *Collaborator) advise(ctx context.Context, entries []core.Entry, monthName string) (string, string) {
	if len(entries) == 0 {
		return CannedMessage(monthName), OutcomeCanned
	}

	logger := c.loggerFor(ctx)
	prompt, err := BuildPrompt(entries, monthName, c.household)
	if err != nil {
		logger.Warn("Failed to build advice prompt", log.NewFields().WithMonth(monthName).WithError(err).ToSlice()...)
		return FallbackMessage, OutcomeFallback
	}

	key := cacheKey(monthName, prompt)
	if c.cache != nil {
		if text, ok := c.cache.Get(key); ok {
			return text, OutcomeCached
		}
	}

	start := time.Now()
	text, err := c.gen.Generate(ctx, prompt, c.temperature)
	elapsed := time.Since(start)
	c.metrics.ObserveAdvice(c.provider, elapsed)

	fields := log.NewFields().
		WithOperation(log.OpAdvise).
		WithMonth(monthName)
	fields[log.FieldProvider] = c.provider
	fields[log.FieldDuration] = elapsed.Milliseconds()

	if err != nil {
		logger.Warn("Advice provider failed", fields.WithError(err).ToSlice()...)
		return FallbackMessage, OutcomeFallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn("Advice provider returned no text", fields.ToSlice()...)
		return EmptyMessage, OutcomeEmpty
	}

	if c.cache != nil {
		c.cache.Set(key, text)
	}
	logger.Debug("Advice generated", fields.ToSlice()...)
	return text, OutcomeOK
}

func (c *Collaborator) loggerFor(ctx context.Context) *log.Logger {
	if c.logger != nil {
		return c.logger
	}
	return log.FromContext(ctx).WithComponent(log.ComponentAdvice)
}

func cacheKey(monthName, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return monthName + ":" + hex.EncodeToString(sum[:])
}
