package classifier

import (
	"encoding/json"
	"strings"

	"cardcheck_api_gateway/internal/model"
)

// Outcome is the result of classifying one raw provider response.
type Outcome struct {
	Verdict model.Verdict
	Message string
	MCP     *string
}

// Keyword sets for the raw-text fallback scan. The provider response
// schema is not stable, so substring matching backstops the structured
// field inspection.
var deadKeywords = []string{
	"3d",
	"3ds",
	"verify",
	"authenticate",
	"otp",
	"secure",
	"redirect",
	"declined",
	"could not",
	"transaction failed",
	"invalid",
	"insufficient",
	"expired",
	"rejected",
	`"failed":true`,
	"try again",
}

var liveKeywords = []string{
	`"status":"success"`,
	"approved",
	"charged",
	"payment successful",
	"transaction successful",
}

// Classify maps one raw provider response to a verdict. It is a pure
// function of the response text: structured fields are authoritative
// when present, substring heuristics cover everything else, and a
// "verification" substring anywhere forces dead regardless of what the
// structured fields said.
func Classify(raw string) Outcome {
	out := Outcome{Verdict: model.VerdictUnknown}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		parsed = map[string]interface{}{"raw": raw}
	}

	if mcp, ok := parsed["mcp"].(string); ok && mcp != "" {
		out.MCP = &mcp
	}

	details := errorDetails(parsed)
	status, _ := parsed["status"].(string)
	lower := strings.ToLower(raw)

	switch {
	case status == "success" && allErrorsNone(details):
		out.Verdict = model.VerdictLive
		out.Message = chargedMessage(out.MCP)
	case status == "success":
		out.Verdict = model.VerdictDead
		out.Message = firstNonNone("Transaction Failed", details["error_message"], details["error_title"])
	case status == "failed" || status == "error":
		out.Verdict = model.VerdictDead
		out.Message = firstNonNone("Transaction Failed", details["error_message"], details["error_title"], parsed["message"])
	case !isNoneEquivalent(details["error_message"]):
		out.Verdict = model.VerdictDead
		out.Message = asString(details["error_message"])
	}

	// The provider sometimes reports status success while a challenge
	// flow is in progress, so a verification mention anywhere in the
	// body overrides the structured verdict.
	if strings.Contains(lower, "verification") {
		out.Verdict = model.VerdictDead
		out.Message = firstNonNone("VERIFICATION REQUIRED - DECLINED", details["error_message"], details["error_title"])
	}

	if out.Verdict == model.VerdictUnknown {
		if hasDeadSignal(lower, parsed, details) {
			out.Verdict = model.VerdictDead
			out.Message = firstNonNone("Transaction Failed", details["error_message"], details["error_title"], parsed["message"])
		} else if containsAny(lower, liveKeywords) {
			out.Verdict = model.VerdictLive
			out.Message = chargedMessage(out.MCP)
		} else {
			out.Message = raw
		}
	}

	return out
}

// isNoneEquivalent reports whether a provider field encodes "no error".
// The provider is inconsistent about this: depending on the field the
// empty value arrives as an absent key, JSON null, the string "None" in
// any casing, or boolean false.
func isNoneEquivalent(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.EqualFold(val, "none")
	case bool:
		return !val
	default:
		return false
	}
}

// allErrorsNone is true only when every error field of the detail
// record is none-equivalent. An absent record counts as no error.
func allErrorsNone(details map[string]interface{}) bool {
	for _, key := range []string{"error_message", "error_title", "failed", "error_code"} {
		if !isNoneEquivalent(details[key]) {
			return false
		}
	}
	return true
}

// errorDetails digs out transaction.retryOptions.details, the provider's
// nested error record. Returns an empty map when any level is missing.
func errorDetails(parsed map[string]interface{}) map[string]interface{} {
	tx, ok := parsed["transaction"].(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	retry, ok := tx["retryOptions"].(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	details, ok := retry["details"].(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return details
}

func hasDeadSignal(lower string, parsed, details map[string]interface{}) bool {
	if containsAny(lower, deadKeywords) {
		return true
	}
	if code, present := details["error_code"]; present && !isNoneEquivalent(code) {
		return true
	}
	if code, present := parsed["error_code"]; present && !isNoneEquivalent(code) {
		return true
	}
	return false
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// firstNonNone returns the first candidate that is not none-equivalent,
// rendered as a string, or fallback when all are.
func firstNonNone(fallback string, candidates ...interface{}) string {
	for _, c := range candidates {
		if !isNoneEquivalent(c) {
			if s := asString(c); s != "" {
				return s
			}
		}
	}
	return fallback
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func chargedMessage(mcp *string) string {
	if mcp != nil {
		return "CHARGED | MCP: " + *mcp
	}
	return "CHARGED"
}
