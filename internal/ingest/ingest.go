// Package ingest reads an upload batch asynchronously and reports each
// converted document as it completes.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgallion1/docreader/internal/converter"
)

// Source is one uploaded file. Read yields its converted markup.
type Source struct {
	Name string
	Read func(ctx context.Context) (string, error)
}

// FileSource builds a Source that converts data with the converter chosen by name.
func FileSource(name string, data []byte, opts converter.Options) (Source, error) {
	conv, err := converter.ForFile(name, opts)
	if err != nil {
		return Source{}, err
	}
	return Source{
		Name: name,
		Read: func(ctx context.Context) (string, error) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			markup, err := conv.Convert(bytes.NewReader(data))
			if err != nil {
				return "", fmt.Errorf("convert %s: %w", name, err)
			}
			return markup, nil
		},
	}, nil
}

// Completion is a source whose read finished.
type Completion struct {
	Name   string
	Markup string
}

// Batch counts completions of one upload. Complete is called by the owner of
// the session under its own lock, so the counter needs no locking of its own.
type Batch struct {
	size      int
	completed int

	done     chan struct{}
	doneOnce sync.Once
}

// NewBatch tracks an upload of size files.
func NewBatch(size int) *Batch {
	return &Batch{size: size, done: make(chan struct{})}
}

// Size returns the number of files in the batch.
func (b *Batch) Size() int {
	return b.size
}

// Completed returns how many reads have completed so far.
func (b *Batch) Completed() int {
	return b.completed
}

// Complete records one completion and reports whether it was the last one.
func (b *Batch) Complete() bool {
	b.completed++
	return b.completed == b.size
}

// Finish marks the batch as activated and releases Done waiters.
func (b *Batch) Finish() {
	b.doneOnce.Do(func() { close(b.done) })
}

// Done is closed once the batch has completed and its document was activated.
// It never closes if one of the reads fails.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// ActivationIndex is the slot the first document of a batch of size would
// occupy once count documents are open, assuming the batch appended contiguously.
func ActivationIndex(count, size int) int {
	return count - size
}

// Run starts one goroutine per source. Each successful read is passed to
// onComplete in completion order. Failed reads are logged and dropped; there
// is no retry, cancellation or timeout beyond ctx.
func Run(ctx context.Context, log *slog.Logger, sources []Source, onComplete func(Completion)) {
	for _, src := range sources {
		go func(src Source) {
			markup, err := src.Read(ctx)
			if err != nil {
				log.Warn("document read failed", "name", src.Name, "error", err)
				return
			}
			onComplete(Completion{Name: src.Name, Markup: markup})
		}(src)
	}
}
