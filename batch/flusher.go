package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bmeg/dbpedia-loader/document"
	"github.com/bmeg/dbpedia-loader/log"
	"github.com/paulbellamy/ratecounter"
)

// DefaultSize is the number of documents sent per update call
const DefaultSize = 1000

const rateWindow = 10 * time.Second

// DocumentSink is the update API of a search service. A batch either
// lands as a whole or the returned error aborts the load.
type DocumentSink interface {
	UpdateDocuments(ctx context.Context, index string, docs []*document.Document) error
	Close() error
}

// FlushError is returned when the sink rejects a batch
type FlushError struct {
	Index string
	Count int
	Err   error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("flushing %d documents to index %s: %v", e.Count, e.Index, e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}

// Stats summarizes a flusher's activity
type Stats struct {
	Accepted int
	Flushed  int
	Flushes  int
	// Rate is documents flushed per second over the last ten seconds
	Rate int64
}

// Flusher buffers documents and hands them to a sink in batches of size.
// Accept and Flush are safe to call from multiple goroutines.
type Flusher struct {
	sink  DocumentSink
	index string
	size  int

	mu       sync.Mutex
	buffer   []*document.Document
	accepted int
	flushed  int
	flushes  int
	rate     *ratecounter.RateCounter
}

// NewFlusher returns a Flusher writing to index. A size <= 0 means DefaultSize.
func NewFlusher(sink DocumentSink, index string, size int) *Flusher {
	if size <= 0 {
		size = DefaultSize
	}
	return &Flusher{
		sink:   sink,
		index:  index,
		size:   size,
		buffer: make([]*document.Document, 0, size),
		rate:   ratecounter.NewRateCounter(rateWindow),
	}
}

// Accept buffers doc and flushes once the buffer holds size documents.
func (f *Flusher) Accept(ctx context.Context, doc *document.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buffer = append(f.buffer, doc)
	f.accepted++
	if len(f.buffer) >= f.size {
		return f.flush(ctx)
	}
	return nil
}

// Flush sends any buffered documents. It does nothing on an empty buffer.
func (f *Flusher) Flush(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flush(ctx)
}

// flush must be called with mu held. The buffer is replaced once the sink
// returns, even when it fails, so a batch is never sent twice.
func (f *Flusher) flush(ctx context.Context) error {
	if len(f.buffer) == 0 {
		return nil
	}
	docs := f.buffer
	err := f.sink.UpdateDocuments(ctx, f.index, docs)
	f.buffer = make([]*document.Document, 0, f.size)
	if err != nil {
		return &FlushError{Index: f.index, Count: len(docs), Err: err}
	}
	f.flushes++
	f.flushed += len(docs)
	f.rate.Incr(int64(len(docs)))
	log.Sub("batch").WithFields(log.Fields{
		"index": f.index,
		"total": f.flushed,
	}).Infof("%d documents", len(docs))
	return nil
}

// Len returns the number of buffered documents
func (f *Flusher) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.buffer)
}

// Stats returns a snapshot of the flusher counters
func (f *Flusher) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Stats{
		Accepted: f.accepted,
		Flushed:  f.flushed,
		Flushes:  f.flushes,
		Rate:     f.rate.Rate() / int64(rateWindow/time.Second),
	}
}
