package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field names set by Build
const (
	FieldURL             = "url"
	FieldTitle           = "title"
	FieldContent         = "content"
	FieldContentBaseType = "contentBaseType"
	FieldHost            = "host"
	FieldLang            = "lang"
)

// Field is a named, weighted document value
type Field struct {
	Name  string
	Value string
	Boost float32
}

// Document is a search index document. Fields keep insertion order.
type Document struct {
	Lang   Language
	Fields []Field
}

// New returns an empty document for the language
func New(lang Language) *Document {
	return &Document{Lang: lang}
}

// Add appends a field
func (d *Document) Add(name, value string, boost float32) {
	d.Fields = append(d.Fields, Field{Name: name, Value: value, Boost: boost})
}

// Get returns the value of the first field with the given name
func (d *Document) Get(name string) (string, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// ID is the document key used by sinks that address documents: its url.
func (d *Document) ID() string {
	v, _ := d.Get(FieldURL)
	return v
}

// Map returns the field values keyed by name
func (d *Document) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(d.Fields))
	for _, f := range d.Fields {
		out[f.Name] = f.Value
	}
	return out
}

// MarshalJSON encodes the document as a flat object of its fields
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map())
}

// BulkBody encodes docs as a newline delimited bulk index request body,
// one action line and one source line per document.
func BulkBody(index string, docs []*Document) (*bytes.Buffer, error) {
	type meta struct {
		Index string `json:"_index"`
		ID    string `json:"_id,omitempty"`
	}
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	for _, d := range docs {
		action := map[string]meta{"index": {Index: index, ID: d.ID()}}
		if err := enc.Encode(action); err != nil {
			return nil, fmt.Errorf("encoding bulk action: %w", err)
		}
		if err := enc.Encode(d.Map()); err != nil {
			return nil, fmt.Errorf("encoding document %s: %w", d.ID(), err)
		}
	}
	return buf, nil
}
