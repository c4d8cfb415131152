package document

import (
	"fmt"
	"strings"
)

// Language is a Wikipedia edition, identified by its ISO 639-1 code.
type Language struct {
	Code string
	Name string
}

// English is the default language of the loader
var English = Language{Code: "en", Name: "English"}

var languages = []Language{
	{Code: "ar", Name: "Arabic"},
	{Code: "ca", Name: "Catalan"},
	{Code: "cs", Name: "Czech"},
	{Code: "da", Name: "Danish"},
	{Code: "de", Name: "German"},
	{Code: "el", Name: "Greek"},
	English,
	{Code: "es", Name: "Spanish"},
	{Code: "eu", Name: "Basque"},
	{Code: "fi", Name: "Finnish"},
	{Code: "fr", Name: "French"},
	{Code: "hu", Name: "Hungarian"},
	{Code: "id", Name: "Indonesian"},
	{Code: "it", Name: "Italian"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "nl", Name: "Dutch"},
	{Code: "no", Name: "Norwegian"},
	{Code: "pl", Name: "Polish"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ro", Name: "Romanian"},
	{Code: "ru", Name: "Russian"},
	{Code: "sv", Name: "Swedish"},
	{Code: "tr", Name: "Turkish"},
	{Code: "uk", Name: "Ukrainian"},
	{Code: "zh", Name: "Chinese"},
}

// FindLanguage looks up a language by code, ignoring case.
func FindLanguage(code string) (Language, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range languages {
		if l.Code == code {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("unknown language code: %q", code)
}

// Languages returns the supported languages
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Host is the Wikipedia host name for the language
func (l Language) Host() string {
	return l.Code + ".wikipedia.org"
}

// ArticlePrefix is the URL prefix of Wikipedia articles in the language
func (l Language) ArticlePrefix() string {
	return "https://" + l.Host() + "/wiki/"
}

func (l Language) String() string {
	return l.Code
}
