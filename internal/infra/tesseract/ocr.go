// Package tesseract provides the OCR engine backed by a local Tesseract
// installation via gosseract.
package tesseract

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// Engine implements port.OCREngine. The gosseract client is not safe for
// concurrent use, so extraction is serialized behind a mutex; the worker
// pool stays responsive because each call is bounded by timeout.
type Engine struct {
	mu      sync.Mutex
	client  *gosseract.Client
	timeout time.Duration
}

func NewEngine(language string, timeout time.Duration) (*Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("set tesseract language %q: %w", language, err)
	}

	return &Engine{client: client, timeout: timeout}, nil
}

// ExtractText runs OCR on a PNG-encoded image. Illegible input yields an
// empty string, not an error. The context deadline and the configured
// timeout both bound the call.
func (e *Engine) ExtractText(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		if err := e.client.SetImageFromBytes(image); err != nil {
			done <- result{err: fmt.Errorf("set image: %w", err)}
			return
		}
		text, err := e.client.Text()
		if err != nil {
			done <- result{err: fmt.Errorf("ocr: %w", err)}
			return
		}
		done <- result{text: strings.TrimSpace(text)}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("ocr timed out: %w", ctx.Err())
	case r := <-done:
		return r.text, r.err
	}
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}
