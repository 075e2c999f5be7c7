package tokenize

import (
	"slices"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

func InitTokenizer() (*tokenizer.Tokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return t, nil
}

// IsJapanese reports whether text contains any hiragana, katakana or kanji.
func IsJapanese(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}

func segment(t *tokenizer.Tokenizer, text string) []string {
	tokens := make([]string, 0, 4)
	for _, tok := range t.Wakati(text) {
		tok = strings.TrimSpace(tok)
		if tok == "" || tok == text {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// GenreSynonyms maps each segment of a compound Japanese genre to the
// compounds containing it, so a query for 映画 also matches 日本映画. Engine
// synonyms are one-way from key to values. Latin genres and single-morpheme
// genres produce no entry.
func GenreSynonyms(t *tokenizer.Tokenizer, genres []string) map[string][]string {
	result := make(map[string][]string)
	seen := make(map[string]struct{}, len(genres))

	for _, genre := range genres {
		genre = strings.TrimSpace(genre)
		if genre == "" || !IsJapanese(genre) {
			continue
		}
		if _, done := seen[genre]; done {
			continue
		}
		seen[genre] = struct{}{}

		tokens := segment(t, genre)
		if len(tokens) < 2 {
			continue
		}
		for _, tok := range tokens {
			if !slices.Contains(result[tok], genre) {
				result[tok] = append(result[tok], genre)
			}
		}
	}

	return result
}
