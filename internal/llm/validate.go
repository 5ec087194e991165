package llm

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Both document schemas are fixed at build time, so they are compiled once
// at package load instead of per reply.
var (
	strictCertificateSchema = mustCompileSchema(BuildCertificateJSONSchema())
	lenientDocumentSchema   = mustCompileSchema(BuildLenientDocumentSchema())
)

func mustCompileSchema(m map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		panic(err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		panic(err)
	}
	return schema
}

// CheckDocumentShape verifies that a recovered document has the expected
// shape: groups may be absent, but anything present must be an object with
// typed leaves. A violation is a parse failure, same category as a reply
// with no recoverable JSON at all.
func CheckDocumentShape(doc map[string]any) error {
	if err := lenientDocumentSchema.Validate(map[string]any(doc)); err != nil {
		return &ParseError{Reason: "document shape invalid: " + err.Error()}
	}
	return nil
}

// CompleteCertificateDocument reports whether a document satisfies the strict
// extraction schema embedded in the structuring prompt: every group present
// and every leaf keyed, with dates either yyyy/mm/dd or a sentinel. Partial
// documents are not errors anywhere in the pipeline; this is a diagnostic for
// logging how complete a reply was.
func CompleteCertificateDocument(doc map[string]any) error {
	if err := strictCertificateSchema.Validate(map[string]any(doc)); err != nil {
		return &ParseError{Reason: "incomplete certificate document: " + err.Error()}
	}
	return nil
}
