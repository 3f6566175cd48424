package advisor

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novapro/internal/perception"
)

func TestResponseSchema_FreshCopy(t *testing.T) {
	s1 := ResponseSchema()
	s1["type"] = "ARRAY"
	delete(s1["properties"].(map[string]interface{}), "advice")

	s2 := ResponseSchema()
	assert.Equal(t, "OBJECT", s2["type"])
	assert.Contains(t, s2["properties"], "advice")
}

func TestResponseSchema_ConvertsForSDK(t *testing.T) {
	converted, err := perception.ToGenAISchema(ResponseSchema())
	require.NoError(t, err)
	assert.Equal(t, []string{"advice", "recommendedConfig", "dangerLevel"}, converted.Required)
	assert.Equal(t, []string{"advice", "recommendedConfig", "dangerLevel"}, converted.PropertyOrdering)
	assert.Equal(t, []string{"Low", "Medium", "High"}, converted.Properties["dangerLevel"].Enum)
}

func TestResponseSchema_IsJSONSerializable(t *testing.T) {
	raw, err := json.Marshal(ResponseSchema())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"required":["advice","recommendedConfig","dangerLevel"]`)
}

func TestParseResult(t *testing.T) {
	got, err := parseResult("\n {\"advice\":\"a\",\"recommendedConfig\":\"b\",\"dangerLevel\":\"Medium\"} \n")
	require.NoError(t, err)
	assert.Equal(t, StrategyResult{Advice: "a", RecommendedConfig: "b", DangerLevel: DangerMedium}, got)

	_, err = parseResult("")
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, KindMalformedResponse, KindOf(err))

	_, err = parseResult("{")
	assert.Equal(t, KindMalformedResponse, KindOf(err))

	_, err = parseResult(`{"advice":"a","recommendedConfig":"b","dangerLevel":"Extreme"}`)
	assert.Equal(t, KindSchemaViolation, KindOf(err))
}

func TestParseResult_DuplicateKeys(t *testing.T) {
	_, err := parseResult(`{"advice":"","advice":"X","recommendedConfig":"Y","dangerLevel":"Low"}`)
	assert.Equal(t, KindSchemaViolation, KindOf(err))
	assert.ErrorContains(t, err, `duplicate key "advice"`)

	key, dup := duplicateKey(`{"a":1,"b":{"a":2}}`)
	assert.False(t, dup, "nested keys are not top-level duplicates")
	assert.Empty(t, key)

	_, dup = duplicateKey(`["a","a"]`)
	assert.False(t, dup)
}

func TestFailure(t *testing.T) {
	cause := errors.New("boom")
	f := fail(KindTransportFailure, cause)

	assert.Equal(t, "TransportFailure: boom", f.Error())
	assert.ErrorIs(t, f, cause)
	assert.Equal(t, KindTransportFailure, KindOf(f))
	assert.Equal(t, KindNone, KindOf(cause))
	assert.Equal(t, "SchemaViolation", (&Failure{Kind: KindSchemaViolation}).Error())
}

func TestFailureKind_String(t *testing.T) {
	assert.Equal(t, "None", KindNone.String())
	assert.Equal(t, "InvalidRequest", KindInvalidRequest.String())
	assert.Equal(t, "MalformedResponse", KindMalformedResponse.String())
	assert.Equal(t, "FailureKind(99)", FailureKind(99).String())

	raw, err := json.Marshal(Report{Kind: KindSchemaViolation})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"failureKind":"SchemaViolation"`)
}
