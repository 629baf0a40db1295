// Package phi redacts protected health information from diagnostic output.
// All log emission funnels through the handler in loghandler.go, so no call
// site can leak an email, phone number, government ID, card number,
// password, or record identifier into logs.
package phi

import (
	"regexp"
	"strings"
)

const (
	emailToken    = "[EMAIL_REDACTED]"
	phoneToken    = "[PHONE_REDACTED]"
	ssnToken      = "[SSN_REDACTED]"
	cardToken     = "[CARD_REDACTED]"
	passwordToken = "[PASSWORD_REDACTED]"
	idToken       = "[ID_REDACTED]"
	redactedToken = "[REDACTED]"
)

// Recognizable PHI shapes. The replacement tokens contain no digits, no '@',
// and no word-boundary-adjacent pattern keywords, which is what makes Mask
// idempotent: a masked string never re-matches any pattern.
var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	cardPattern  = regexp.MustCompile(`\b\d{4}[\s\-]?\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`)
	// Key/value shapes such as password=hunter2 or "pwd": "x". The \b after
	// the keyword keeps PASSWORD_REDACTED from re-matching.
	passwordPattern = regexp.MustCompile(`(?i)\b(password|pwd)\b("?\s*[:=]\s*"?)[^,}"\s]*`)
	// Identifier fields in free text or serialized payloads.
	idFieldPattern = regexp.MustCompile(`(?i)\b(userId|patientId|doctorId|id)\b("?\s*[:=]\s*"?)[A-Za-z0-9\-]+`)
)

// Keys whose values are redacted wholesale when masking structured data.
var sensitiveKeys = []string{
	"password", "email", "phone", "ssn", "creditcard", "token", "authorization", "secret",
}

// Identifier keys the mask contract names explicitly. Matched against the
// normalized key so user_id and userId are treated the same. Correlation
// keys like request_id are deliberately not in this set.
var identifierKeys = map[string]struct{}{
	"id":        {},
	"userid":    {},
	"patientid": {},
	"doctorid":  {},
	"actorid":   {},
	"subjectid": {},
}

// Mask replaces recognizable PHI patterns in text with fixed redaction
// tokens. Idempotent: Mask(Mask(s)) == Mask(s).
func Mask(s string) string {
	if s == "" {
		return s
	}
	s = cardPattern.ReplaceAllString(s, cardToken)
	s = ssnPattern.ReplaceAllString(s, ssnToken)
	s = phonePattern.ReplaceAllString(s, phoneToken)
	s = emailPattern.ReplaceAllString(s, emailToken)
	s = passwordPattern.ReplaceAllString(s, "${1}${2}"+passwordToken)
	s = idFieldPattern.ReplaceAllString(s, "${1}${2}"+idToken)
	return s
}

// SensitiveKey reports whether a structured-data key holds a value that must
// be redacted wholesale rather than pattern-masked.
func SensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if strings.Contains(lower, k) {
			return true
		}
	}
	normalized := strings.NewReplacer("_", "", "-", "").Replace(lower)
	_, ok := identifierKeys[normalized]
	return ok
}

// MaskValue deep-masks structured data: strings are pattern-masked, values
// under sensitive keys are replaced entirely, and maps and slices are walked
// recursively. Non-string scalars pass through unchanged.
func MaskValue(v any) any {
	switch val := v.(type) {
	case string:
		return Mask(val)
	case map[string]any:
		masked := make(map[string]any, len(val))
		for k, item := range val {
			if SensitiveKey(k) {
				masked[k] = redactedToken
				continue
			}
			masked[k] = MaskValue(item)
		}
		return masked
	case []any:
		masked := make([]any, len(val))
		for i, item := range val {
			masked[i] = MaskValue(item)
		}
		return masked
	case []string:
		masked := make([]string, len(val))
		for i, item := range val {
			masked[i] = Mask(item)
		}
		return masked
	case error:
		return Mask(val.Error())
	default:
		return v
	}
}
