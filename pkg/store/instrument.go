package store

import (
	"context"
	"time"

	"github.com/matzehuels/sprintboard/pkg/observability"
)

// Instrument wraps s so every call retries transient failures with
// RetryWithBackoff, and loads and saves are reported to the registered
// observability store hooks under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{next: s, backend: backend}
}

type instrumented struct {
	next    Store
	backend string
}

func (s *instrumented) Get(ctx context.Context, id string) (*Document, error) {
	start := time.Now()
	var doc *Document
	err := RetryWithBackoff(ctx, func() error {
		var err error
		doc, err = s.next.Get(ctx, id)
		return err
	})
	observability.Store().OnLoad(ctx, s.backend, id, time.Since(start), err)
	return doc, err
}

func (s *instrumented) Put(ctx context.Context, doc *Document) error {
	start := time.Now()
	err := RetryWithBackoff(ctx, func() error { return s.next.Put(ctx, doc) })
	observability.Store().OnSave(ctx, s.backend, doc.ID, time.Since(start), err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	return RetryWithBackoff(ctx, func() error { return s.next.Delete(ctx, id) })
}

func (s *instrumented) List(ctx context.Context) ([]Summary, error) {
	var out []Summary
	err := RetryWithBackoff(ctx, func() error {
		var err error
		out, err = s.next.List(ctx)
		return err
	})
	return out, err
}

func (s *instrumented) Close() error { return s.next.Close() }
