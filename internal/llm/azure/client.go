package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coverageworks/cert-intake/constants"
	"github.com/coverageworks/cert-intake/internal/common"
	"github.com/coverageworks/cert-intake/internal/llm"
)

// RecognizeText implements the vision call site of llm.Extractor: one page
// image in, the raw reply text out. At-most-once; a failed call is terminal
// for the document.
func (c *Client) RecognizeText(ctx context.Context, imageDataURL string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	if !c.Configured() {
		c.logger.Error("llm.ocr.not_configured", "req_id", rid)
		return "", common.ErrNotConfigured
	}

	body := map[string]any{
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildOCRSystemPrompt(constants.TemplateFormStrings())},
			{"role": "user", "content": []map[string]any{
				{"type": "image_url", "image_url": map[string]any{"url": imageDataURL}},
			}},
		},
		"max_tokens":  constants.MaxTokens,
		"temperature": constants.OCRTemperature,
	}

	content, err := c.chat(ctx, rid, body)
	if err != nil {
		c.logger.Error("llm.ocr.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	c.logger.Info("llm.ocr.ok",
		"req_id", rid,
		"reply_bytes", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// StructureText implements the structuring call site: recognized text in,
// the recovered nested document plus raw reply content out.
func (c *Client) StructureText(ctx context.Context, rawText string) (map[string]any, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	if !c.Configured() {
		c.logger.Error("llm.structure.not_configured", "req_id", rid)
		return nil, nil, common.ErrNotConfigured
	}

	body := map[string]any{
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildStructuringSystemPrompt()},
			{"role": "user", "content": []map[string]any{
				{"type": "text", "text": llm.StructuringUserPreamble},
				{"type": "text", "text": rawText},
			}},
		},
		"max_tokens":  constants.MaxTokens,
		"temperature": constants.StructuringTemperature,
	}

	content, err := c.chat(ctx, rid, body)
	if err != nil {
		c.logger.Error("llm.structure.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil, err
	}

	doc, err := llm.ParseReply(content)
	if err != nil {
		c.logger.Error("llm.structure.parse_failed",
			"req_id", rid, "error", err, "content", content,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, []byte(content), err
	}

	// Shape check only: partial documents are expected and pass, but present
	// groups must be objects with typed leaves.
	if vErr := llm.CheckDocumentShape(doc); vErr != nil {
		c.logger.Error("llm.structure.shape_invalid",
			"req_id", rid, "error", vErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, []byte(content), vErr
	}
	if cErr := llm.CompleteCertificateDocument(doc); cErr != nil {
		c.logger.Debug("llm.structure.partial_document", "req_id", rid, "detail", cErr)
	}

	c.logger.Info("llm.structure.ok",
		"req_id", rid,
		"groups", len(doc),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return doc, []byte(content), nil
}

// chat performs one POST to the configured endpoint and returns the content
// of the first choice, validating the reply shape explicitly so structural
// surprises surface as parse errors rather than faults.
func (c *Client) chat(ctx context.Context, rid string, body map[string]any) (string, error) {
	raw, status, err := llm.PostChat(ctx, c.http, c.cfg.Endpoint, c.cfg.APIKey, body, c.logger)
	if err != nil {
		if status != 0 {
			return "", fmt.Errorf("%w: status %d: %s", common.ErrTransport, status, strings.TrimSpace(string(raw)))
		}
		return "", fmt.Errorf("%w: %v", common.ErrTransport, err)
	}

	var reply struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", &llm.ParseError{Reason: "decode reply envelope: " + err.Error(), Snippet: string(raw)}
	}
	if len(reply.Choices) == 0 {
		return "", &llm.ParseError{Reason: "no choices in reply", Snippet: string(raw)}
	}
	content := strings.TrimSpace(reply.Choices[0].Message.Content)
	if content == "" {
		return "", &llm.ParseError{Reason: "empty message content", Snippet: string(raw)}
	}
	c.logger.Info("llm.chat.reply", "req_id", rid, "content_bytes", len(content))
	return content, nil
}
