package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

var caseFolder = cases.Fold()

// Normalize case-folds a title, strips non-alphanumeric characters, and
// collapses runs of whitespace into single spaces.
func Normalize(text string) string {
	return strings.Join(Tokenize(text), " ")
}

// Tokenize splits text into case-folded alphanumeric tokens. Unlike a search
// tokenizer it keeps short tokens: titles are brief and every token carries
// signal.
func Tokenize(text string) []string {
	folded := caseFolder.String(text)
	raw := tokenSplitPattern.Split(folded, -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
