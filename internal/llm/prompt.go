package llm

import "strings"

// The vision call carries the full extraction rulebook; the model answers
// with its reasoning stages and a final fenced JSON object inside
// <initial_attempt> tags, which ParseReply recovers.

// BuildOCRSystemPrompt composes the instruction prompt for the vision call.
func BuildOCRSystemPrompt(templateForms []string) string {
	parts := []string{
		"You are an assistant that extracts insurance certificate data from scanned documents with absolute accuracy.",
		"Parse multi-page certificates into a single coherent JSON output and extract ONLY the specified fields.",
		"Mark any explicitly absent field as \"missing\" and any visible-but-ambiguous value as \"[unclear]\". Never assume, infer, or guess.",
		"ALL dates MUST be in yyyy/mm/dd format without exception. In YY/MM/DD inputs the first number is ALWAYS the year; in MM/DD/YYYY inputs the first number is ALWAYS the month.",
		"Preserve numeric digit sequences exactly as shown; remove commas and currency symbols only after verifying the digits are unchanged.",
		"Determine currency from the insured name's address: Canadian address -> CAD, United States address -> USD, other countries only when explicitly stated; otherwise \"missing\". A missing coverage or deductible amount forces its currency field to \"missing\" too.",
		"Template form must be one of: " + strings.Join(templateForms, "|") + ".",
		"Automobile Liability is NOT the same as \"Automobile Owners Form\"; if a type of insurance cannot be found, mark every field under it \"missing\".",
		"For Commercial General Liability the amount refers to EACH OCCURRENCE, never General Aggregate.",
		"For Non-Owned Trailer, NEVER extract \"Bodily Injury\", \"Non-Owned Automobile\", \"Trailer Interchange\" or SEF23A amounts; valid identifiers include SEF 27, MSEF 27, N.O.A. - Trailers, and Non Owned Trailer Interchange. If not in a structured row, search Description, Remarks, Additional Coverages and similar sections.",
		"Valid deductible identifiers: DED., DED, Deductible, Deductibles, all perils, all perils deductible, Deductible - All Perils. Deductibles are separate per insurance type; search row by row.",
		"If insurers are referenced by letter (Insurer A, B, C) map each letter to the full insurer name; output the name, or \"[unclear]\" when no full name is found.",
		"Certificate Holder may appear after \"This is to certify to...\" and may read \"To Whom it May Concern\" — extract as written. Additional Insured is labeled ONLY \"Additional Insured\" and is NOT the certificate holder.",
		"Do not extract handwritten notes, non-insurance text, or document metadata outside the schema.",
		"Work through your reasoning, then present your final answer strictly as valid JSON wrapped within ```json and ``` inside <initial_attempt> tags.",
	}
	return strings.Join(parts, "\n")
}

// BuildStructuringSystemPrompt composes the system message for the second
// call, embedding the nested schema the reply must follow.
func BuildStructuringSystemPrompt() string {
	parts := []string{
		"You are an assistant specialized in extracting insurance certificate data.",
		"Extract data from the provided insurance certificate text according to this schema:",
		SchemaJSON(BuildCertificateJSONSchema()),
		"Follow these rules:",
		"1. Extract all available information that fits the schema.",
		"2. If information is missing, leave the field empty.",
		"3. For currency fields, use the standard 3-letter currency code (e.g., USD, CAD).",
		"4. For date fields, use the format yyyy/mm/dd.",
		"5. For amount fields, extract only the numeric value without currency symbols or commas.",
		"6. If multiple values could fit a field, choose the most appropriate one.",
		"7. Respond ONLY with a valid JSON object following the schema.",
	}
	return strings.Join(parts, "\n")
}

// StructuringUserPreamble precedes the recognized text in the user message.
const StructuringUserPreamble = "Extract and structure the information based on the following extracted text. " +
	"Provide your response strictly in JSON format wrapped within ```json and ``` inside <initial_attempt> tags."
