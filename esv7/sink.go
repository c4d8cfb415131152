package esv7

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/bmeg/dbpedia-loader/document"
	"github.com/bmeg/dbpedia-loader/log"
	"github.com/bmeg/dbpedia-loader/util"
	elasticsearch "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
)

// Config describes an elasticsearch 7 cluster
type Config struct {
	Addresses []string
	Username  string
	Password  string
	Refresh   bool
	// Timeout bounds each bulk request, 10m when unset
	Timeout util.Duration
}

// Sink writes document batches through the elasticsearch 7 bulk API
type Sink struct {
	conf Config
	es   *elasticsearch.Client
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// NewSink creates a client for the configured cluster
func NewSink(conf Config) (*Sink, error) {
	if len(conf.Addresses) == 0 {
		conf.Addresses = []string{"http://localhost:9200"}
	}
	if conf.Timeout <= 0 {
		conf.Timeout = util.Duration(10 * time.Minute)
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: conf.Addresses,
		Username:  conf.Username,
		Password:  conf.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch client: %w", err)
	}
	log.Infof("Elasticsearch client %s: %v", elasticsearch.Version, conf.Addresses)
	return &Sink{conf: conf, es: es}, nil
}

// UpdateDocuments sends docs as one bulk request
func (s *Sink) UpdateDocuments(ctx context.Context, index string, docs []*document.Document) error {
	if len(docs) == 0 {
		return nil
	}
	body, err := document.BulkBody(index, docs)
	if err != nil {
		return err
	}
	req := esapi.BulkRequest{
		Index: index,
		Body:  body,
	}
	if s.conf.Refresh {
		req.Refresh = "true"
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.conf.Timeout))
	defer cancel()
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("bulk request: %s: %s", res.Status(), msg)
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return fmt.Errorf("parsing bulk response: %w", err)
	}
	if !br.Errors {
		return nil
	}
	failed := 0
	var first string
	for _, item := range br.Items {
		for _, r := range item {
			if r.Status > 299 {
				if failed == 0 {
					first = fmt.Sprintf("%s: [%d] %s: %s", r.ID, r.Status, r.Error.Type, r.Error.Reason)
				}
				failed++
			}
		}
	}
	return fmt.Errorf("%d of %d documents failed, first %s", failed, len(docs), first)
}

// Close is a no-op, the client holds no long lived connections of its own
func (s *Sink) Close() error {
	return nil
}
