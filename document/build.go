package document

import (
	"strings"

	"github.com/bmeg/dbpedia-loader/ttl"
)

const (
	dbpediaResource = "http://dbpedia.org/resource/"
	titleSuffix     = " - Wikipedia"
	contentBaseType = "text/html"
	fieldBoost      = 1.0
)

// Build turns a short abstract triple into a search document. It returns
// false when the triple carries no abstract or its subject has no path
// segment to title the document with.
func Build(t ttl.Triple, lang Language) (*Document, bool) {
	if !t.Object.Valid || t.Object.Value == "" {
		return nil, false
	}
	segments := strings.FieldsFunc(t.Subject, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return nil, false
	}
	title := strings.ReplaceAll(segments[len(segments)-1], "_", " ") + titleSuffix

	d := New(lang)
	d.Add(FieldURL, ArticleURL(t.Subject, lang), fieldBoost)
	d.Add(FieldTitle, title, fieldBoost)
	d.Add(FieldContent, t.Object.Value, fieldBoost)
	d.Add(FieldContentBaseType, contentBaseType, fieldBoost)
	d.Add(FieldHost, lang.Host(), fieldBoost)
	d.Add(FieldLang, lang.Code, fieldBoost)
	return d, true
}

// ArticleURL rewrites generic and language specific DBpedia resource URIs
// to the Wikipedia article URL. Other URIs are returned unchanged.
func ArticleURL(subject string, lang Language) string {
	prefix := lang.ArticlePrefix()
	url := strings.ReplaceAll(subject, dbpediaResource, prefix)
	return strings.ReplaceAll(url, "http://"+lang.Code+".dbpedia.org/resource/", prefix)
}
