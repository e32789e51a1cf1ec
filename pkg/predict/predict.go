// Package predict talks to the remote next-word prediction service.
//
// The service is opaque: it receives the trailing context and the settings
// bundle and answers with ranked candidate strings. Every outcome is reduced to
// a Result so the engine can consume it on its own loop.
package predict

import (
	"context"
	"errors"
	"fmt"

	"github.com/bastiangx/lessonpad/pkg/config"
	"github.com/bastiangx/lessonpad/pkg/tokenize"
)

var (
	// ErrTransport covers failed calls and non-success statuses.
	ErrTransport = errors.New("prediction request failed")
	// ErrMalformed covers responses without a usable suggestion list.
	// It wraps ErrTransport so both surface the same way.
	ErrMalformed = fmt.Errorf("%w: malformed response", ErrTransport)
)

// Request is one prediction call.
type Request struct {
	Context  string          `json:"context"`
	Settings config.Settings `json:"settings"`
}

// NewRequest builds a request from a buffer snapshot, trimmed to the
// configured context window.
func NewRequest(buffer string, settings config.Settings) Request {
	return Request{
		Context:  tokenize.TrailingWindow(buffer, settings.ContextWindow),
		Settings: settings,
	}
}

// Result is the outcome of one request: Words on success, Err otherwise.
type Result struct {
	Request Request
	Words   []string
	Err     error
}

// OK reports whether the request succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Predictor returns ranked candidates for a request.
type Predictor interface {
	Predict(ctx context.Context, req Request) ([]string, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(ctx context.Context, req Request) ([]string, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, req Request) ([]string, error) {
	return f(ctx, req)
}

// Do runs req through p and wraps the outcome.
func Do(ctx context.Context, p Predictor, req Request) Result {
	words, err := p.Predict(ctx, req)
	if err != nil {
		if !errors.Is(err, ErrTransport) && !errors.Is(err, context.Canceled) {
			err = fmt.Errorf("%w: %w", ErrTransport, err)
		}
		return Result{Request: req, Err: err}
	}
	return Result{Request: req, Words: words}
}
