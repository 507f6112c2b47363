package classifier

import (
	"testing"

	"cardcheck_api_gateway/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		expectedVerdict model.Verdict
		expectedMessage string
	}{
		{
			name:            "success_all_errors_none",
			raw:             `{"status":"success","transaction":{"retryOptions":{"details":{"error_message":"None","error_title":"None","failed":null,"error_code":"None"}}}}`,
			expectedVerdict: model.VerdictLive,
			expectedMessage: "CHARGED",
		},
		{
			name:            "success_with_error_message",
			raw:             `{"status":"success","transaction":{"retryOptions":{"details":{"error_message":"Insufficient funds","error_title":"None","failed":true,"error_code":"51"}}}}`,
			expectedVerdict: model.VerdictDead,
			expectedMessage: "Insufficient funds",
		},
		{
			name:            "success_with_error_title_only",
			raw:             `{"status":"success","transaction":{"retryOptions":{"details":{"error_message":"None","error_title":"Do Not Honor","failed":true,"error_code":"05"}}}}`,
			expectedVerdict: model.VerdictDead,
			expectedMessage: "Do Not Honor",
		},
		{
			name:            "success_failed_true_no_messages",
			raw:             `{"status":"success","transaction":{"retryOptions":{"details":{"error_message":"None","error_title":"None","failed":true,"error_code":"None"}}}}`,
			expectedVerdict: model.VerdictDead,
			expectedMessage: "Transaction Failed",
		},
		{
			name:            "success_without_details_record",
			raw:             `{"status":"success","id":"tx-1"}`,
			expectedVerdict: model.VerdictLive,
			expectedMessage: "CHARGED",
		},
		{
			name:            "status_failed_with_top_level_message",
			raw:             `{"status":"failed","message":"Card was declined by issuer"}`,
			expectedVerdict: model.VerdictDead,
			expectedMessage: "Card was declined by issuer",
		},
		{
			name:            "status_error_with_detail_message",
			raw:             `{"status":"error","transaction":{"retryOptions":{"details":{"error_message":"Stolen card","error_title":"None","failed":true,"error_code":"43"}}}}`,
			expectedVerdict: model.VerdictDead,
			expectedMessage: "Stolen card",
		},
		{
			name:            "details_error_message_without_status",
			raw:             `{"transaction":{"retryOptions":{"details":{"error_message":"Processor unavailable","error_title":"None","failed":null,"error_code":"None"}}}}`,
			expectedVerdict: model.VerdictDead,
			expectedMessage: "Processor unavailable",
		},
		{
			name:            "verification_override_beats_structured_live",
			raw:             `{"status":"success","note":"verification pending","transaction":{"retryOptions":{"details":{"error_message":"None","error_title":"None","failed":null,"error_code":"None"}}}}`,
			expectedVerdict: model.VerdictDead,
			expectedMessage: "VERIFICATION REQUIRED - DECLINED",
		},
		{
			name:            "verification_override_uppercase",
			raw:             `{"status":"success","note":"VERIFICATION step required"}`,
			expectedVerdict: model.VerdictDead,
			expectedMessage: "VERIFICATION REQUIRED - DECLINED",
		},
		{
			name:            "verification_override_keeps_detail_message",
			raw:             `{"status":"pending","note":"verification","transaction":{"retryOptions":{"details":{"error_message":"OTP required","error_title":"None","failed":true,"error_code":"None"}}}}`,
			expectedVerdict: model.VerdictDead,
			expectedMessage: "OTP required",
		},
		{
			name:            "plain_text_3ds_verification",
			raw:             "3DS verification required",
			expectedVerdict: model.VerdictDead,
			expectedMessage: "VERIFICATION REQUIRED - DECLINED",
		},
		{
			name:            "plain_text_declined_keyword",
			raw:             "Your transaction was declined",
			expectedVerdict: model.VerdictDead,
			expectedMessage: "Transaction Failed",
		},
		{
			name:            "keyword_failed_true_literal",
			raw:             `[{"failed":true}]`,
			expectedVerdict: model.VerdictDead,
			expectedMessage: "Transaction Failed",
		},
		{
			name:            "keyword_insufficient",
			raw:             "insufficient balance on account",
			expectedVerdict: model.VerdictDead,
			expectedMessage: "Transaction Failed",
		},
		{
			name:            "error_code_fallback",
			raw:             `{"status":"pending","error_code":"91"}`,
			expectedVerdict: model.VerdictDead,
			expectedMessage: "Transaction Failed",
		},
		{
			name:            "live_keyword_approved",
			raw:             "Payment approved by issuer",
			expectedVerdict: model.VerdictLive,
			expectedMessage: "CHARGED",
		},
		{
			name:            "live_keyword_compact_success",
			raw:             `[{"status":"success"}]`,
			expectedVerdict: model.VerdictLive,
			expectedMessage: "CHARGED",
		},
		{
			name:            "unknown_pending_no_keywords",
			raw:             `{"status":"pending"}`,
			expectedVerdict: model.VerdictUnknown,
			expectedMessage: `{"status":"pending"}`,
		},
		{
			name:            "unknown_unrecognized_text",
			raw:             "processing",
			expectedVerdict: model.VerdictUnknown,
			expectedMessage: "processing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Classify(tt.raw)

			if out.Verdict != tt.expectedVerdict {
				t.Errorf("expected verdict '%s', but got '%s'", tt.expectedVerdict, out.Verdict)
			}
			if out.Message != tt.expectedMessage {
				t.Errorf("expected message '%s', but got '%s'", tt.expectedMessage, out.Message)
			}
		})
	}
}

func TestClassifyMCP(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		expectedMessage string
		expectedMCP     string
	}{
		{
			name:            "live_with_mcp",
			raw:             `{"status":"success","mcp":"1.00 USD"}`,
			expectedMessage: "CHARGED | MCP: 1.00 USD",
			expectedMCP:     "1.00 USD",
		},
		{
			name:            "live_keyword_with_mcp",
			raw:             `{"result":"approved","mcp":"0.50 EUR"}`,
			expectedMessage: "CHARGED | MCP: 0.50 EUR",
			expectedMCP:     "0.50 EUR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Classify(tt.raw)

			if out.Verdict != model.VerdictLive {
				t.Errorf("expected verdict '%s', but got '%s'", model.VerdictLive, out.Verdict)
			}
			if out.Message != tt.expectedMessage {
				t.Errorf("expected message '%s', but got '%s'", tt.expectedMessage, out.Message)
			}
			if out.MCP == nil {
				t.Error("expected MCP to be carried through, but got nil")
				return
			}
			if *out.MCP != tt.expectedMCP {
				t.Errorf("expected MCP '%s', but got '%s'", tt.expectedMCP, *out.MCP)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	raws := []string{
		`{"status":"success","transaction":{"retryOptions":{"details":{"error_message":"None","error_title":"None","failed":null,"error_code":"None"}}}}`,
		"3DS verification required",
		`{"status":"pending"}`,
		"not even json {",
	}

	for _, raw := range raws {
		first := Classify(raw)
		for i := 0; i < 5; i++ {
			again := Classify(raw)
			if again.Verdict != first.Verdict || again.Message != first.Message {
				t.Errorf("classification of %q is not deterministic: got (%s, %q) then (%s, %q)",
					raw, first.Verdict, first.Message, again.Verdict, again.Message)
			}
		}
	}
}

func TestIsNoneEquivalent(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected bool
	}{
		{name: "nil_value", value: nil, expected: true},
		{name: "none_capitalized", value: "None", expected: true},
		{name: "none_lowercase", value: "none", expected: true},
		{name: "none_uppercase", value: "NONE", expected: true},
		{name: "false_bool", value: false, expected: true},
		{name: "true_bool", value: true, expected: false},
		{name: "error_string", value: "Insufficient funds", expected: false},
		{name: "empty_string", value: "", expected: false},
		{name: "number", value: float64(51), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNoneEquivalent(tt.value); got != tt.expected {
				t.Errorf("isNoneEquivalent(%v): expected %t, but got %t", tt.value, tt.expected, got)
			}
		})
	}
}

func TestAllErrorsNone(t *testing.T) {
	tests := []struct {
		name     string
		details  map[string]interface{}
		expected bool
	}{
		{
			name:     "empty_record",
			details:  map[string]interface{}{},
			expected: true,
		},
		{
			name: "all_none_mixed_encodings",
			details: map[string]interface{}{
				"error_message": "None",
				"error_title":   nil,
				"failed":        false,
				"error_code":    "none",
			},
			expected: true,
		},
		{
			name: "failed_true",
			details: map[string]interface{}{
				"error_message": "None",
				"error_title":   "None",
				"failed":        true,
				"error_code":    "None",
			},
			expected: false,
		},
		{
			name: "error_code_set",
			details: map[string]interface{}{
				"error_code": "05",
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := allErrorsNone(tt.details); got != tt.expected {
				t.Errorf("expected %t, but got %t", tt.expected, got)
			}
		})
	}
}
