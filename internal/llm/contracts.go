package llm

import "context"

// Extractor is the model-facing contract the pipeline depends on. Both calls
// are at-most-once: a transport or parse failure is terminal for that
// document and no retry is attempted.
type Extractor interface {
	// RecognizeText sends a page image to the vision model and returns the
	// raw text of the single reply message.
	RecognizeText(ctx context.Context, imageDataURL string) (string, error)

	// StructureText sends previously recognized text to the model and returns
	// the recovered nested certificate document plus the raw reply content.
	StructureText(ctx context.Context, rawText string) (map[string]any, []byte, error)
}
