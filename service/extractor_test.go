package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReplyText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare string", `"hello"`, "hello"},
		{"array with output", `[{"output":"hi"}]`, "hi"},
		{"object output", `{"output":"done"}`, "done"},
		{"object text", `{"text":"ok"}`, "ok"},
		{"object message", `{"message":"ok"}`, "ok"},
		{"object response", `{"response":"ok"}`, "ok"},
		{"output wins over text", `{"text":"second","output":"first"}`, "first"},
		{"text wins over message", `{"message":"second","text":"first"}`, "first"},
		{"non-string output skipped", `{"output":42,"text":"fallback"}`, "fallback"},
		{"unknown fields fall back to raw", `{"foo":1,"bar":2}`, `{"foo":1,"bar":2}`},
		{"number falls back to raw", `42`, "42"},
		{"array without output falls back to raw", `[1,2,3]`, "[1,2,3]"},
		{"empty array falls back to raw", `[]`, "[]"},
		{"null falls back to raw", `null`, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractReplyText(json.RawMessage(tt.raw)))
		})
	}
}

func TestExtractReplyTextNeverEmptyHandling(t *testing.T) {
	assert.Equal(t, "", ExtractReplyText(nil))
	assert.Equal(t, "", ExtractReplyText(json.RawMessage("  ")))
}

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return v
}

func TestFindNestedReply(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		found bool
	}{
		{"top level response", `{"response":"hi"}`, "hi", true},
		{"top level processedResult", `{"processedResult":"done"}`, "done", true},
		{"processedResult wins over message", `{"message":"b","processedResult":"a"}`, "a", true},
		{"inside data", `{"data":{"response":"nested"}}`, "nested", true},
		{"inside results array", `{"results":[{"ignored":1},{"message":"third"}]}`, "third", true},
		{"inside json wrapper", `{"json":{"data":{"message":"deep"}}}`, "deep", true},
		{"inside arbitrary key", `{"wrapper":{"response":"found"}}`, "found", true},
		{"top level array", `[{"response":"first"}]`, "first", true},
		{"nothing recognizable", `{"foo":1,"bar":true}`, "", false},
		{"scalar", `"plain"`, "", false},
		{"empty string value skipped", `{"response":""}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindNestedReply(decode(t, tt.raw), 0)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindNestedReplyFallbackScanDeterministic(t *testing.T) {
	// Two unrecognized keys both hold a reply. The scan goes key by key in
	// sorted order, so "alpha" must win on every run.
	raw := `{"zeta":{"response":"from zeta"},"alpha":{"response":"from alpha"}}`
	for i := 0; i < 20; i++ {
		got, ok := FindNestedReply(decode(t, raw), 0)
		assert.True(t, ok)
		assert.Equal(t, "from alpha", got)
	}
}

func TestFindNestedReplyDepthBound(t *testing.T) {
	// Six wrappers deep, past the cap of five.
	raw := `{"data":{"data":{"data":{"data":{"data":{"data":{"response":"too deep"}}}}}}}`
	_, ok := FindNestedReply(decode(t, raw), 0)
	assert.False(t, ok)

	// Exactly at the cap is still reachable.
	raw = `{"data":{"data":{"data":{"data":{"response":"reachable"}}}}}`
	got, ok := FindNestedReply(decode(t, raw), 0)
	assert.True(t, ok)
	assert.Equal(t, "reachable", got)
}

func TestExtractCallbackText(t *testing.T) {
	text, source := ExtractCallbackText(decode(t, `{"response":"Deferred answer"}`))
	assert.Equal(t, "Deferred answer", text)
	assert.Equal(t, "nested", source)

	// A lone string field is used as a last resort.
	text, source = ExtractCallbackText(decode(t, `{"reply":"only one"}`))
	assert.Equal(t, "only one", text)
	assert.Equal(t, "auto-detected:reply", source)

	// Several unknown string fields are ambiguous: placeholder, no pick.
	text, source = ExtractCallbackText(decode(t, `{"a":"x","b":"y"}`))
	assert.Equal(t, DefaultCallbackMessage, text)
	assert.Equal(t, "default", source)

	// Non-object payloads get the placeholder too.
	text, source = ExtractCallbackText(decode(t, `42`))
	assert.Equal(t, DefaultCallbackMessage, text)
	assert.Equal(t, "default", source)
}
