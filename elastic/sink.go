package elastic

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bmeg/dbpedia-loader/document"
	"github.com/bmeg/dbpedia-loader/log"
	elastic "gopkg.in/olivere/elastic.v5"
)

// Sink indexes document batches with the elasticsearch bulk API
type Sink struct {
	conf   Config
	client *elastic.Client
}

// NewSink creates a new elasticsearch document sink
func NewSink(conf Config) (*Sink, error) {
	conf.SetDefaults()
	log.Infof("Starting Elastic Driver: %s", conf.URL)

	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(conf.URL),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
		elastic.SetHttpClient(&http.Client{Timeout: time.Duration(conf.Timeout)}),
	}
	if conf.Username != "" && conf.Password != "" {
		opts = append(opts, elastic.SetBasicAuth(conf.Username, conf.Password))
	}

	client, err := elastic.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %v", err)
	}
	return &Sink{conf: conf, client: client}, nil
}

// UpdateDocuments sends docs in a single bulk request, keyed by url
func (es *Sink) UpdateDocuments(ctx context.Context, index string, docs []*document.Document) error {
	if len(docs) == 0 {
		return nil
	}
	bulkRequest := es.client.Bulk().Index(index).Type(es.conf.DocType)
	if es.conf.Refresh {
		bulkRequest = bulkRequest.Refresh("true")
	}
	for _, d := range docs {
		req := elastic.NewBulkIndexRequest().
			Index(index).
			Type(es.conf.DocType).
			Id(d.ID()).
			Doc(d.Map())
		bulkRequest = bulkRequest.Add(req)
	}
	res, err := bulkRequest.Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk request failed: %v", err)
	}
	if failed := res.Failed(); len(failed) > 0 {
		first := failed[0]
		reason := fmt.Sprintf("status %d", first.Status)
		if first.Error != nil {
			reason = fmt.Sprintf("%s: %s", first.Error.Type, first.Error.Reason)
		}
		return fmt.Errorf("%d of %d documents failed, first %s: %s", len(failed), len(docs), first.Id, reason)
	}
	return nil
}

// Close stops the elasticsearch client
func (es *Sink) Close() error {
	es.client.Stop()
	return nil
}
