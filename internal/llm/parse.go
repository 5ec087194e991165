package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/coverageworks/cert-intake/internal/common"
)

var (
	// The model is instructed to wrap its final JSON in a fenced block inside
	// <initial_attempt> tags; accept any fenced JSON block as a fallback.
	reWrappedJSON = regexp.MustCompile("(?s)<initial_attempt>\\s*```json(.*?)```\\s*</initial_attempt>")
	reFencedJSON  = regexp.MustCompile("(?s)```json(.*?)```")
)

// ParseError reports a reply from which no valid JSON object could be
// recovered. Snippet carries the offending text for diagnosis.
type ParseError struct {
	Reason  string
	Snippet string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse reply: %s: %q", e.Reason, e.Snippet)
}

func (e *ParseError) Is(target error) bool {
	return target == common.ErrParse
}

// ParseReply recovers the structured certificate document from a model reply.
// Already-structured input is returned unchanged. Text input is searched for
// a sentinel-wrapped JSON fence first, then for the first JSON fence anywhere;
// in both cases the first match in document order wins. Anything else is a
// parse failure, never partially populated or guessed data.
//
// Numbers are decoded as json.Number so exact decimal text survives
// downstream stringification.
func ParseReply(reply any) (map[string]any, error) {
	switch v := reply.(type) {
	case map[string]any:
		return v, nil
	case []byte:
		return parseReplyText(string(v))
	case string:
		return parseReplyText(v)
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unexpected reply type %T", reply)}
	}
}

func parseReplyText(text string) (map[string]any, error) {
	var body string
	if m := reWrappedJSON.FindStringSubmatch(text); m != nil {
		body = m[1]
	} else if m := reFencedJSON.FindStringSubmatch(text); m != nil {
		body = m[1]
	} else {
		return nil, &ParseError{Reason: "no fenced JSON block found", Snippet: snippet(text)}
	}

	body = strings.TrimSpace(body)
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Reason: "invalid JSON: " + err.Error(), Snippet: snippet(body)}
	}
	return doc, nil
}

// snippet truncates diagnostic text to keep error values and logs readable.
func snippet(s string) string {
	const max = 240
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
