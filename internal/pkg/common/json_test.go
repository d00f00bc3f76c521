package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONSpanBareArray(t *testing.T) {
	raw := `[{"a": 1}]`
	assert.Equal(t, raw, ExtractJSONSpan(raw))
}

func TestExtractJSONSpanInsideProse(t *testing.T) {
	raw := "Sure! Here you go:\n```json\n[{\"a\": 1}]\n```\nanything else?"
	assert.Equal(t, `[{"a": 1}]`, ExtractJSONSpan(raw))
}

func TestExtractJSONSpanObject(t *testing.T) {
	raw := `prefix {"items": [1, 2]} suffix`
	assert.Equal(t, `{"items": [1, 2]}`, ExtractJSONSpan(raw))
}

func TestExtractJSONSpanIgnoresBracketsInStrings(t *testing.T) {
	raw := `[{"name": "array ] literal", "note": "brace } too"}]`
	assert.Equal(t, raw, ExtractJSONSpan(raw))
}

func TestExtractJSONSpanFallsBackToOtherBracket(t *testing.T) {
	// 先出現的 [ 沒有閉合，應改抓後面的完整物件
	raw := `broken [ text {"ok": true}`
	assert.Equal(t, `{"ok": true}`, ExtractJSONSpan(raw))
}

func TestExtractJSONSpanNoJSON(t *testing.T) {
	assert.Empty(t, ExtractJSONSpan("no structure here"))
	assert.Empty(t, ExtractJSONSpan(""))
	assert.Empty(t, ExtractJSONSpan("[never closed"))
}

func TestQuoteJSONKeys(t *testing.T) {
	raw := `{name: "a", nested: {inner_key: 1}, list: [1]}`
	quoted := QuoteJSONKeys(raw)

	var parsed map[string]interface{}
	require.NoError(t, ParseJSON(quoted, &parsed))
	assert.Contains(t, parsed, "name")
	assert.Contains(t, parsed, "nested")
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	assert.Error(t, ParseJSON(`{"a": 1} {"b": 2}`, &v))
}

func TestParseJSONStrictRejectsUnknownFields(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	assert.NoError(t, ParseJSON(`{"a": 1, "b": 2}`, &v))
	assert.Error(t, ParseJSONStrict(`{"a": 1, "b": 2}`, &v))
}
