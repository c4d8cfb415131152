package loader

import (
	"context"
	"errors"
	"time"

	"github.com/bmeg/dbpedia-loader/batch"
	"github.com/bmeg/dbpedia-loader/document"
	"github.com/bmeg/dbpedia-loader/log"
	"github.com/bmeg/dbpedia-loader/ttl"
	"github.com/bmeg/dbpedia-loader/util"
	"github.com/paulbellamy/ratecounter"
)

const progressEvery = 100000

// Options configures a Run
type Options struct {
	Index      string
	Language   document.Language
	BufferSize int
	// Limit stops the run after this many lines, 0 reads everything
	Limit int
	Sink  batch.DocumentSink
}

// Result reports what a Run did, including when it failed part way
type Result struct {
	Lines     int
	Documents int
	Skipped   int
	Batch     batch.Stats
	Duration  time.Duration
}

// Run loads src into opts.Sink: each line is parsed, turned into a
// document and buffered, and the trailing partial batch is flushed once the
// source is exhausted. Any error aborts the run without the final flush.
func Run(ctx context.Context, src util.LineSource, opts Options) (Result, error) {
	start := time.Now()
	flusher := batch.NewFlusher(opts.Sink, opts.Index, opts.BufferSize)
	lineRate := ratecounter.NewRateCounter(10 * time.Second)
	logger := log.Sub("loader").WithFields(log.Fields{"index": opts.Index, "lang": opts.Language.Code})

	var res Result
	n, err := Load(src, opts.Limit, func(t ttl.Triple) error {
		lineRate.Incr(1)
		if seen := res.Documents + res.Skipped + 1; seen%progressEvery == 0 {
			logger.Infof("Processed %d lines (%d/sec)", seen, lineRate.Rate()/10)
		}
		doc, ok := document.Build(t, opts.Language)
		if !ok {
			res.Skipped++
			logger.Debugf("skipping %s: no abstract", t.Subject)
			return nil
		}
		res.Documents++
		return flusher.Accept(ctx, doc)
	})
	res.Lines = n
	if err == nil {
		err = flusher.Flush(ctx)
	}
	var fe *batch.FlushError
	if errors.As(err, &fe) {
		logger.Warningf("batch of %d documents rejected after %d lines: %v", fe.Count, n, fe.Err)
	}
	res.Batch = flusher.Stats()
	res.Duration = time.Since(start)
	return res, err
}
