package blevedb

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/bmeg/dbpedia-loader/document"
	"github.com/bmeg/dbpedia-loader/log"
)

// Config locates the local index. An empty Path keeps the index in memory.
type Config struct {
	Path string
}

// Sink writes documents into a local bleve index, one bleve batch per call.
// Every index name maps to the same bleve index; the name is stored with
// each document in its index field.
type Sink struct {
	mu    sync.Mutex
	path  string
	index bleve.Index
}

// keyword fields are stored verbatim rather than analyzed
var keywordFields = []string{
	document.FieldURL,
	document.FieldHost,
	document.FieldLang,
	document.FieldContentBaseType,
}

func indexMapping() mapping.IndexMapping {
	kw := bleve.NewTextFieldMapping()
	kw.Analyzer = keyword.Name

	dm := bleve.NewDocumentMapping()
	for _, f := range keywordFields {
		dm.AddFieldMappingsAt(f, kw)
	}
	dm.AddFieldMappingsAt("index", kw)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = dm
	return im
}

// NewSink opens the index at conf.Path, creating it when missing
func NewSink(conf Config) (*Sink, error) {
	var (
		idx bleve.Index
		err error
	)
	if conf.Path == "" {
		idx, err = bleve.NewMemOnly(indexMapping())
	} else if _, statErr := os.Stat(conf.Path); os.IsNotExist(statErr) {
		log.Infof("Creating bleve index %s", conf.Path)
		idx, err = bleve.New(conf.Path, indexMapping())
	} else {
		idx, err = bleve.Open(conf.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening bleve index %s: %w", conf.Path, err)
	}
	return &Sink{path: conf.Path, index: idx}, nil
}

// UpdateDocuments indexes docs, keyed by url, in a single bleve batch
func (s *Sink) UpdateDocuments(ctx context.Context, index string, docs []*document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.index.NewBatch()
	for _, d := range docs {
		data := d.Map()
		data["index"] = index
		if err := b.Index(d.ID(), data); err != nil {
			return fmt.Errorf("indexing %s: %w", d.ID(), err)
		}
	}
	if err := s.index.Batch(b); err != nil {
		return fmt.Errorf("writing bleve batch: %w", err)
	}
	return nil
}

// Count returns the number of documents in the index
func (s *Sink) Count() (uint64, error) {
	return s.index.DocCount()
}

// Search runs a match query and returns the ids of matching documents
func (s *Sink) Search(text string, size int) ([]string, error) {
	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(text), size, 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		out = append(out, h.ID)
	}
	return out, nil
}

// Close closes the index
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}
