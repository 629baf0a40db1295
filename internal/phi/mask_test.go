package phi

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskPatterns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"email",
			"login failed for jane.doe@clinic.example.com",
			"login failed for [EMAIL_REDACTED]",
		},
		{
			"phone",
			"callback requested at 555-867-5309",
			"callback requested at [PHONE_REDACTED]",
		},
		{
			"phone with dots",
			"reach patient on 555.867.5309 today",
			"reach patient on [PHONE_REDACTED] today",
		},
		{
			"ssn",
			"ssn on file 123-45-6789",
			"ssn on file [SSN_REDACTED]",
		},
		{
			"card",
			"paid with 4111 1111 1111 1111",
			"paid with [CARD_REDACTED]",
		},
		{
			"password key value",
			`body {"password": "hunter2"} rejected`,
			`body {"password": "[PASSWORD_REDACTED]"} rejected`,
		},
		{
			"pwd assignment",
			"retry with pwd=s3cret!",
			"retry with pwd=[PASSWORD_REDACTED]",
		},
		{
			"patientId field",
			"patientId: 9f1c2a3b lookup failed",
			"patientId: [ID_REDACTED] lookup failed",
		},
		{
			"doctorId json field",
			`"doctorId":"abc-123" not found`,
			`"doctorId":"[ID_REDACTED]" not found`,
		},
		{
			"bare id field",
			"record id=42 skipped",
			"record id=[ID_REDACTED] skipped",
		},
		{
			"clean text untouched",
			"Invalid email or password",
			"Invalid email or password",
		},
		{
			"empty",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.input))
		})
	}
}

func TestMaskIdempotent(t *testing.T) {
	inputs := []string{
		"jane.doe@clinic.example.com called from 555-867-5309",
		`{"password":"hunter2","patientId":"abc123","ssn":"123-45-6789"}`,
		"pwd=secret card 4111-1111-1111-1111",
		"already [EMAIL_REDACTED] and [PASSWORD_REDACTED] here",
		"plain operational message",
	}

	for _, input := range inputs {
		once := Mask(input)
		twice := Mask(once)
		assert.Equal(t, once, twice, "mask must be idempotent for %q", input)
	}
}

func TestMaskRemovesAllEmailShapes(t *testing.T) {
	out := Mask("cc a@b.co, b.user+tag@sub.domain.org; plain text")
	assert.NotRegexp(t, `[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`, out)
}

func TestMaskValueDeep(t *testing.T) {
	input := map[string]any{
		"password": "hunter2",
		"note":     "patient jane@clinic.example.com stable",
		"nested": map[string]any{
			"authorization": "Bearer abc.def.ghi",
			"contact":       "555-867-5309",
		},
		"tags":  []any{"reach me at joe@x.io"},
		"count": 3,
	}

	masked := MaskValue(input).(map[string]any)
	assert.Equal(t, "[REDACTED]", masked["password"])
	assert.Equal(t, "patient [EMAIL_REDACTED] stable", masked["note"])
	assert.Equal(t, 3, masked["count"])

	nested := masked["nested"].(map[string]any)
	assert.Equal(t, "[REDACTED]", nested["authorization"])
	assert.Equal(t, "[PHONE_REDACTED]", nested["contact"])

	tags := masked["tags"].([]any)
	assert.Equal(t, "reach me at [EMAIL_REDACTED]", tags[0])
}

func TestSensitiveKey(t *testing.T) {
	sensitive := []string{
		"password", "Email", "phone_number", "Authorization", "refresh_token",
		"id", "userId", "user_id", "patientId", "doctorId", "actor_id",
	}
	for _, key := range sensitive {
		assert.True(t, SensitiveKey(key), "key %q should be sensitive", key)
	}

	clean := []string{"request_id", "action", "status", "role", "count", "resource_id"}
	for _, key := range clean {
		assert.False(t, SensitiveKey(key), "key %q should not be sensitive", key)
	}
}

func TestLogHandlerMasksEverything(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLogHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("login attempt for jane@clinic.example.com",
		"email", "jane@clinic.example.com",
		"password", "hunter2",
		"reason", "called from 555-867-5309",
		"error", errors.New("lookup for patientId: abc123 failed"),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "login attempt for [EMAIL_REDACTED]", entry["msg"])
	assert.Equal(t, "[REDACTED]", entry["email"])
	assert.Equal(t, "[REDACTED]", entry["password"])
	assert.Equal(t, "called from [PHONE_REDACTED]", entry["reason"])
	assert.Equal(t, "lookup for patientId: [ID_REDACTED] failed", entry["error"])
}

func TestLogHandlerWithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLogHandler(slog.NewJSONHandler(&buf, nil))).
		With("contact", "joe@x.io")

	logger.Info("ok", slog.Group("request", slog.String("token", "eyJ...")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "[EMAIL_REDACTED]", entry["contact"])
	request := entry["request"].(map[string]any)
	assert.Equal(t, "[REDACTED]", request["token"])
}
