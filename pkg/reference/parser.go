// Package reference extracts explicit document references from a free-form
// RAG query. MemoryStore scores the query with the references removed and
// ranks any document named by an @doc:<id> reference at a score of at least
// 1.0; title references are removed but not matched against documents, and
// no referenced document's tokens are added to the query. Adapted from a generic @-mention /
// wiki-link parser; the syntax is kept, the target domain changed from notes
// to RAGDocs.
package reference

import (
	"regexp"
	"strings"
)

type ReferenceType string

const (
	TypeDocID   ReferenceType = "doc_id"
	TypeTitle   ReferenceType = "title"
	TypePartial ReferenceType = "partial"
)

type ParsedReference struct {
	Type        ReferenceType
	Value       string
	Syntax      string
	OriginalRaw string
}

type ParseResult struct {
	References  []ParsedReference
	CleanQuery  string
	HasRefs     bool
}

var docIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,128}$`)

var (
	atDocQuotedPattern = regexp.MustCompile(`@doc:"([^"]+)"`)
	atDocPlainPattern  = regexp.MustCompile(`@doc:(\S+)`)
	wikiLinkPattern    = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// MaxReferences is the hard limit for references in a single query.
const MaxReferences = 5

// Parse extracts @doc:<id>, @doc:"<title>" and [[title]] references from a
// RAG query, returning the references found and the query with them removed.
func Parse(query string) *ParseResult {
	result := &ParseResult{
		References: make([]ParsedReference, 0),
		CleanQuery: query,
	}

	var allMatches []string

	quoted := atDocQuotedPattern.FindAllStringSubmatch(query, -1)
	for _, match := range quoted {
		if len(match) >= 2 {
			result.References = append(result.References, ParsedReference{
				Type: TypeTitle, Value: match[1], Syntax: "@doc:", OriginalRaw: match[0],
			})
			allMatches = append(allMatches, match[0])
		}
	}

	temp := query
	for _, match := range allMatches {
		temp = strings.Replace(temp, match, "", 1)
	}

	plain := atDocPlainPattern.FindAllStringSubmatch(temp, -1)
	for _, match := range plain {
		if len(match) >= 2 {
			value := match[1]
			result.References = append(result.References, ParsedReference{
				Type: classify(value), Value: value, Syntax: "@doc:", OriginalRaw: match[0],
			})
			allMatches = append(allMatches, match[0])
		}
	}

	wiki := wikiLinkPattern.FindAllStringSubmatch(query, -1)
	for _, match := range wiki {
		if len(match) >= 2 {
			result.References = append(result.References, ParsedReference{
				Type: TypeTitle, Value: match[1], Syntax: "[[]]", OriginalRaw: match[0],
			})
			allMatches = append(allMatches, match[0])
		}
	}

	clean := query
	for _, match := range allMatches {
		clean = strings.Replace(clean, match, "", 1)
	}
	clean = strings.TrimSpace(clean)
	clean = whitespacePattern.ReplaceAllString(clean, " ")

	result.CleanQuery = clean
	result.HasRefs = len(result.References) > 0
	return result
}

func classify(value string) ReferenceType {
	if docIDPattern.MatchString(value) && strings.ContainsAny(value, "-_0123456789") {
		return TypeDocID
	}
	return TypePartial
}

// Validate returns an error if refs exceeds MaxReferences.
func Validate(refs []ParsedReference) error {
	if len(refs) > MaxReferences {
		return ErrTooManyReferences{}
	}
	return nil
}

type ErrTooManyReferences struct{}

func (e ErrTooManyReferences) Error() string {
	return "too many document references: maximum 5 allowed"
}
