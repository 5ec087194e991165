package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/coverageworks/cert-intake/internal/common"
)

func TestParseReplyMapPassthrough(t *testing.T) {
	doc := map[string]any{"certificateInfo": map[string]any{"insuredName": "Acme Trucking"}}
	got, err := ParseReply(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected passthrough, got %v", got)
	}
	info, ok := got["certificateInfo"].(map[string]any)
	if !ok || info["insuredName"] != "Acme Trucking" {
		t.Fatalf("map was not returned unchanged: %v", got)
	}
}

func TestParseReplyWrappedFence(t *testing.T) {
	reply := "Let me work through the certificate.\n" +
		"<initial_attempt>```json\n" +
		`{"certificateInfo": {"insuredName": "Acme Trucking"}}` +
		"\n```</initial_attempt>\n" +
		"That concludes my answer."
	got, err := ParseReply(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info := got["certificateInfo"].(map[string]any)
	if info["insuredName"] != "Acme Trucking" {
		t.Fatalf("wrong document: %v", got)
	}
}

func TestParseReplyFallbackFence(t *testing.T) {
	reply := "Here is the result:\n```json\n{\"other\": {\"certificateHolder\": \"To Whom it May Concern\"}}\n```"
	got, err := ParseReply(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := got["other"].(map[string]any)
	if other["certificateHolder"] != "To Whom it May Concern" {
		t.Fatalf("wrong document: %v", got)
	}
}

func TestParseReplyFirstMatchWins(t *testing.T) {
	reply := "<initial_attempt>```json\n{\"pick\": \"first\"}\n```</initial_attempt>\n" +
		"```json\n{\"pick\": \"second\"}\n```"
	got, err := ParseReply(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["pick"] != "first" {
		t.Fatalf("expected the wrapped block to win, got %v", got)
	}
}

func TestParseReplyNoJSON(t *testing.T) {
	_, err := ParseReply("Sorry, I cannot help with that.")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !errors.Is(err, common.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Snippet == "" {
		t.Fatal("parse error should carry the offending text")
	}
}

func TestParseReplyInvalidJSONInFence(t *testing.T) {
	_, err := ParseReply("```json\n{not json}\n```")
	if !errors.Is(err, common.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParseReplyKeepsExactDecimals(t *testing.T) {
	reply := "```json\n{\"automobileLiability\": {\"amount\": 500000.00, \"deductibleAmount\": 1000}}\n```"
	got, err := ParseReply(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	auto := got["automobileLiability"].(map[string]any)
	amount, ok := auto["amount"].(json.Number)
	if !ok {
		t.Fatalf("expected json.Number, got %T", auto["amount"])
	}
	if amount.String() != "500000.00" {
		t.Fatalf("decimal text not preserved: %q", amount.String())
	}
	if auto["deductibleAmount"].(json.Number).String() != "1000" {
		t.Fatalf("integer text not preserved: %v", auto["deductibleAmount"])
	}
}
