package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"evaluno/interview-api/internal/models"
)

// RecordSchema validates one recovered JSON object against a record shape.
type RecordSchema struct {
	name      string
	schema    *gojsonschema.Schema
	normalize func(map[string]any)
}

// NewInterviewItemSchema accepts InterviewItem objects. A non-empty filter
// narrows the type enum so items of any other type are rejected.
func NewInterviewItemSchema(filter models.QuestionType) (*RecordSchema, error) {
	types := questionTypeNames()
	if filter != "" {
		if !filter.Valid() {
			return nil, fmt.Errorf("unknown question type %q", filter)
		}
		types = []string{string(filter)}
	}

	doc := map[string]any{
		"type":     "object",
		"required": []string{"question", "answer", "type", "difficulty"},
		"properties": map[string]any{
			"question":   map[string]any{"type": "string", "minLength": 1},
			"answer":     map[string]any{"type": "string"},
			"type":       map[string]any{"type": "string", "enum": types},
			"difficulty": map[string]any{"type": "string", "enum": difficultyNames()},
		},
	}

	return newRecordSchema("InterviewItem", doc, nil)
}

// NewCVScoreSchema accepts CVScore objects with exactly three strengths and
// three weaknesses.
func NewCVScoreSchema() (*RecordSchema, error) {
	threeStrings := map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string"},
		"minItems": 3,
		"maxItems": 3,
	}

	doc := map[string]any{
		"type":     "object",
		"required": []string{"score", "strengths", "weaknesses"},
		"properties": map[string]any{
			"cv_text":    map[string]any{"type": "string"},
			"score":      map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"strengths":  threeStrings,
			"weaknesses": threeStrings,
		},
	}

	return newRecordSchema("CVScore", doc, normalizeCVScore)
}

func newRecordSchema(name string, doc map[string]any, normalize func(map[string]any)) (*RecordSchema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", name, err)
	}
	return &RecordSchema{name: name, schema: schema, normalize: normalize}, nil
}

func (s *RecordSchema) Name() string {
	return s.name
}

// Check normalizes obj and validates it, returning the normalized JSON.
func (s *RecordSchema) Check(obj json.RawMessage) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%s must be a JSON object", s.name)
	}

	if s.normalize != nil {
		s.normalize(fields)
	}

	result, err := s.schema.Validate(gojsonschema.NewGoLoader(fields))
	if err != nil {
		return nil, fmt.Errorf("failed to validate %s: %w", s.name, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid %s: %s", s.name, strings.Join(msgs, "; "))
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", s.name, err)
	}
	return normalized, nil
}

// A score written as 85.0 is still an integer score.
func normalizeCVScore(fields map[string]any) {
	n, ok := fields["score"].(json.Number)
	if !ok {
		return
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return
	}
	fields["score"] = int64(f)
}
