package service

import (
	"bytes"
	"encoding/json"
	"log"
	"sort"
	"strings"
)

// DefaultCallbackMessage is used when a callback payload carries no
// recognizable reply field.
const DefaultCallbackMessage = "Reply received from workflow"

// maxSearchDepth caps the recursive callback search. The bound guards against
// pathological nesting, not performance.
const maxSearchDepth = 5

// replyFields is the union of reply shapes the webhook is known to answer
// with. Fields stay raw so a non-string value is skipped instead of failing
// the whole decode.
type replyFields struct {
	Output   json.RawMessage `json:"output"`
	Text     json.RawMessage `json:"text"`
	Message  json.RawMessage `json:"message"`
	Response json.RawMessage `json:"response"`
}

// ExtractReplyText locates the human-readable reply inside a webhook
// response. It tries the known shapes in order: a bare string, an array whose
// first element carries "output", then an object checked field by field with
// "output" winning over "text", "message" and "response". Anything else falls
// back to the raw JSON text, so the caller always gets a renderable string.
func ExtractReplyText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		if len(items) > 0 {
			var first replyFields
			if err := json.Unmarshal(items[0], &first); err == nil {
				if v, ok := asString(first.Output); ok {
					return v
				}
			}
		}
		return string(raw)
	}

	var obj replyFields
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, field := range []json.RawMessage{obj.Output, obj.Text, obj.Message, obj.Response} {
			if v, ok := asString(field); ok && v != "" {
				return v
			}
		}
	}

	return string(raw)
}

func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// FindNestedReply searches decoded callback JSON for a reply-bearing field.
// At each level it checks processedResult, response and message, then
// descends the conventional n8n wrapper fields before scanning whatever keys
// remain.
func FindNestedReply(v interface{}, depth int) (string, bool) {
	if depth > maxSearchDepth {
		return "", false
	}

	if items, ok := v.([]interface{}); ok {
		for _, item := range items {
			if s, ok := FindNestedReply(item, depth+1); ok {
				return s, true
			}
		}
		return "", false
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return "", false
	}

	for _, key := range []string{"processedResult", "response", "message"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s, true
		}
	}

	for _, key := range []string{"data", "results", "json"} {
		if wrapped, ok := obj[key]; ok {
			if s, ok := FindNestedReply(wrapped, depth+1); ok {
				return s, true
			}
		}
	}

	// Remaining keys are scanned in sorted order so the same payload always
	// yields the same reply.
	rest := make([]string, 0, len(obj))
	for key, val := range obj {
		if key == "data" || key == "results" || key == "json" {
			continue
		}
		switch val.(type) {
		case map[string]interface{}, []interface{}:
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		if s, ok := FindNestedReply(obj[key], depth+1); ok {
			return s, true
		}
	}

	return "", false
}

// ExtractCallbackText resolves the display text for an inbound callback and
// reports which strategy produced it. An ambiguous payload (several string
// fields, none recognized) is not an error: the placeholder is used and the
// raw payload stays available for diagnostics.
func ExtractCallbackText(v interface{}) (string, string) {
	if s, ok := FindNestedReply(v, 0); ok {
		return s, "nested"
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return DefaultCallbackMessage, "default"
	}

	var stringKeys []string
	for key, val := range obj {
		if _, ok := val.(string); ok {
			stringKeys = append(stringKeys, key)
		}
	}

	if len(stringKeys) == 1 {
		key := stringKeys[0]
		return obj[key].(string), "auto-detected:" + key
	}
	if len(stringKeys) > 1 {
		sort.Strings(stringKeys)
		log.Printf("[webhook] ambiguous callback payload, string fields: %s", strings.Join(stringKeys, ", "))
	}

	return DefaultCallbackMessage, "default"
}
