package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/bmeg/dbpedia-loader/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs(n int) []*document.Document {
	out := []*document.Document{}
	for i := 0; i < n; i++ {
		d := document.New(document.English)
		d.Add(document.FieldURL, fmt.Sprintf("https://en.wikipedia.org/wiki/Doc_%d", i), 1)
		d.Add(document.FieldContent, "abstract", 1)
		out = append(out, d)
	}
	return out
}

func TestUpdateDocuments(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	for i := 0; i < 3; i++ {
		producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			doc := map[string]string{}
			if err := json.Unmarshal(val, &doc); err != nil {
				return err
			}
			if doc["content"] != "abstract" {
				return fmt.Errorf("unexpected content %q", doc["content"])
			}
			return nil
		})
	}
	sink := newSink(producer)
	require.NoError(t, sink.UpdateDocuments(context.Background(), "abstracts", testDocs(3)))
	require.NoError(t, sink.Close())
}

func TestUpdateDocumentsFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndSucceed()
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	sink := newSink(producer)

	err := sink.UpdateDocuments(context.Background(), "abstracts", testDocs(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	require.NoError(t, sink.Close())
}
