package advisor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// ResponseSchema returns the structured-output schema sent upstream. A fresh
// map is built on every call so clients may mutate it.
func ResponseSchema() map[string]interface{} {
	enum := make([]interface{}, 0, len(DangerLevels))
	for _, d := range DangerLevels {
		enum = append(enum, string(d))
	}
	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"advice": map[string]interface{}{
				"type":        "STRING",
				"description": "Detailed strategy and optimization advice.",
			},
			"recommendedConfig": map[string]interface{}{
				"type":        "STRING",
				"description": "Specific numbers or settings values.",
			},
			"dangerLevel": map[string]interface{}{
				"type":        "STRING",
				"enum":        enum,
				"description": "Risk level of performance impact.",
			},
		},
		"required":         []interface{}{"advice", "recommendedConfig", "dangerLevel"},
		"propertyOrdering": []interface{}{"advice", "recommendedConfig", "dangerLevel"},
	}
}

// validationSchema is the local check applied to every answer. It is stricter
// than what the model is told: text fields must carry a non-blank character.
const validationSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["advice", "recommendedConfig", "dangerLevel"],
  "properties": {
    "advice":            {"type": "string", "minLength": 1, "pattern": "\\S"},
    "recommendedConfig": {"type": "string", "minLength": 1, "pattern": "\\S"},
    "dangerLevel":       {"type": "string", "enum": ["Low", "Medium", "High"]}
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func resultSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("strategy.json", strings.NewReader(validationSchema)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile("strategy.json")
	})
	return compiledSchema, compileErr
}

// parseResult turns model text into a StrategyResult. Errors are *Failure
// values classified as MalformedResponse or SchemaViolation.
func parseResult(text string) (StrategyResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return StrategyResult{}, fail(KindMalformedResponse, ErrEmptyResponse)
	}
	if !gjson.Valid(text) {
		return StrategyResult{}, fail(KindMalformedResponse, fmt.Errorf("response is not valid JSON (len=%d)", len(text)))
	}

	if key, dup := duplicateKey(text); dup {
		return StrategyResult{}, fail(KindSchemaViolation, fmt.Errorf("duplicate key %q", key))
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return StrategyResult{}, fail(KindMalformedResponse, fmt.Errorf("decode response: %w", err))
	}

	schema, err := resultSchema()
	if err != nil {
		return StrategyResult{}, fail(KindSchemaViolation, fmt.Errorf("compile result schema: %w", err))
	}
	if err := schema.Validate(doc); err != nil {
		return StrategyResult{}, fail(KindSchemaViolation, err)
	}

	// Fields come from the validated document, never a second parse.
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return StrategyResult{}, fail(KindSchemaViolation, fmt.Errorf("response is %T, not an object", doc))
	}
	advice, _ := obj["advice"].(string)
	recommended, _ := obj["recommendedConfig"].(string)
	danger, _ := obj["dangerLevel"].(string)
	result := StrategyResult{
		Advice:            advice,
		RecommendedConfig: recommended,
		DangerLevel:       DangerLevel(danger),
	}
	if strings.TrimSpace(result.Advice) == "" || strings.TrimSpace(result.RecommendedConfig) == "" {
		return StrategyResult{}, fail(KindSchemaViolation, errors.New("blank text field"))
	}
	if !result.DangerLevel.Valid() {
		return StrategyResult{}, fail(KindSchemaViolation, fmt.Errorf("invalid danger level %q", result.DangerLevel))
	}
	return result, nil
}

// duplicateKey reports the first top-level key that appears twice.
func duplicateKey(text string) (string, bool) {
	parsed := gjson.Parse(text)
	if !parsed.IsObject() {
		return "", false
	}
	seen := make(map[string]struct{})
	var dup string
	parsed.ForEach(func(key, _ gjson.Result) bool {
		if _, ok := seen[key.String()]; ok {
			dup = key.String()
			return false
		}
		seen[key.String()] = struct{}{}
		return true
	})
	return dup, dup != ""
}
