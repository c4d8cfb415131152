package opensearch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/bmeg/dbpedia-loader/document"
	"github.com/bmeg/dbpedia-loader/log"
	"github.com/bmeg/dbpedia-loader/util"
	opensearch "github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// Config describes an OpenSearch cluster
type Config struct {
	Address  string
	Username string
	Password string
	// Insecure skips TLS certificate verification
	Insecure bool
	// Timeout bounds each bulk request, 10m when unset
	Timeout util.Duration
}

// Sink writes document batches with the OpenSearch bulk API
type Sink struct {
	client  *opensearchapi.Client
	timeout time.Duration
}

// NewSink connects to the configured cluster
func NewSink(conf Config) (*Sink, error) {
	if conf.Address == "" {
		conf.Address = "https://localhost:9200"
	}
	if conf.Timeout <= 0 {
		conf.Timeout = util.Duration(10 * time.Minute)
	}
	log.Infof("OpenSearch Sink: %s %s", conf.Address, conf.Username)
	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: conf.Insecure},
			},
			Addresses: []string{conf.Address},
			Username:  conf.Username,
			Password:  conf.Password,
		},
	})
	if err != nil {
		return nil, err
	}
	return &Sink{client: client, timeout: time.Duration(conf.Timeout)}, nil
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
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	resp, err := s.client.Bulk(ctx, opensearchapi.BulkReq{
		Index: index,
		Body:  body,
	})
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	if resp.Errors {
		failed := 0
		for _, item := range resp.Items {
			for _, r := range item {
				if r.Status > 299 {
					failed++
				}
			}
		}
		return fmt.Errorf("%d of %d documents rejected by index %s", failed, len(docs), index)
	}
	return nil
}

// Close is a no-op
func (s *Sink) Close() error {
	return nil
}
