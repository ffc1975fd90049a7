package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
)

const fence = "```"

var (
	arrayCandidate = regexp.MustCompile(`(?s)\[\s*\{.*?\}\s*\]`)
	jsonBlock      = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")
	jsonBlockOpen  = regexp.MustCompile("(?is)```json\\s*(.*)$")

	errNoArray  = errors.New("response is not a JSON array")
	errNoBlock  = errors.New("no json code block found")
	errNoObject = errors.New("no JSON object in json code block parsed")
)

var (
	cvScoreSchema    = mustSchema(NewCVScoreSchema())
	interviewSchemas = func() map[models.QuestionType]*RecordSchema {
		schemas := map[models.QuestionType]*RecordSchema{"": mustSchema(NewInterviewItemSchema(""))}
		for _, t := range models.QuestionTypes {
			schemas[t] = mustSchema(NewInterviewItemSchema(t))
		}
		return schemas
	}()
)

func mustSchema(s *RecordSchema, err error) *RecordSchema {
	if err != nil {
		panic(err)
	}
	return s
}

// RecoverInterviewItems recovers Q&A items from raw model output. With a
// non-empty filter, items of any other type fail validation.
func RecoverInterviewItems(raw string, filter models.QuestionType) ([]models.InterviewItem, error) {
	schema, ok := interviewSchemas[filter]
	if !ok {
		return nil, apperrors.New(apperrors.KindInvalidInput, fmt.Sprintf("unknown question type %q", filter))
	}
	return RecoverRecords[models.InterviewItem](raw, schema)
}

// RecoverCVScores recovers comparison entries from raw model output.
func RecoverCVScores(raw string) ([]models.CVScore, error) {
	return RecoverRecords[models.CVScore](raw, cvScoreSchema)
}

type recoveryPath int

const (
	pathDirect recoveryPath = iota
	pathArraySubstring
	pathPerObject
)

func (p recoveryPath) String() string {
	switch p {
	case pathDirect:
		return "direct"
	case pathArraySubstring:
		return "array substring"
	default:
		return "per object"
	}
}

// RecoverRecords runs the strategy chain over raw and decodes every
// recovered object into T, preserving source order.
//
// A clean array (direct parse or array substring) is validated strictly: one
// bad element rejects the whole response. Objects salvaged one by one from a
// json code block are validated leniently: bad ones are dropped and logged.
func RecoverRecords[T any](raw string, schema *RecordSchema) ([]T, error) {
	objects, path, err := recoverObjects(raw)
	if err != nil {
		return nil, apperrors.NoRecoverableJSON(raw, err)
	}

	if path != pathPerObject {
		return decodeStrict[T](objects, schema, path)
	}

	records := make([]T, 0, len(objects))
	for i, obj := range objects {
		record, err := decodeRecord[T](obj, schema)
		if err != nil {
			log.Printf("⚠️ Dropped object %d from model response: %v", i, err)
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, apperrors.NoRecoverableJSON(raw, fmt.Errorf("none of %d recovered objects is a valid %s", len(objects), schema.Name()))
	}

	log.Printf("🧩 Recovered %d of %d %s objects (%s)", len(records), len(objects), schema.Name(), path)
	return records, nil
}

// recoverObjects tries each strategy in order and reports which one won.
func recoverObjects(raw string) ([]json.RawMessage, recoveryPath, error) {
	if objects, err := parseDirect(StripFences(raw)); err == nil {
		return objects, pathDirect, nil
	}

	if objects, err := findArraySubstring(raw); err == nil {
		return objects, pathArraySubstring, nil
	}

	objects, err := findBlockObjects(raw)
	if err != nil {
		return nil, pathPerObject, err
	}
	return objects, pathPerObject, nil
}

func decodeStrict[T any](objects []json.RawMessage, schema *RecordSchema, path recoveryPath) ([]T, error) {
	records := make([]T, 0, len(objects))
	for i, obj := range objects {
		record, err := decodeRecord[T](obj, schema)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindValidation,
				fmt.Sprintf("element %d of the model response is not a valid %s", i, schema.Name()), err)
		}
		records = append(records, record)
	}

	log.Printf("🧩 Recovered %d %s records (%s)", len(records), schema.Name(), path)
	return records, nil
}

func decodeRecord[T any](obj json.RawMessage, schema *RecordSchema) (T, error) {
	var record T
	normalized, err := schema.Check(obj)
	if err != nil {
		return record, err
	}
	if err := json.Unmarshal(normalized, &record); err != nil {
		return record, fmt.Errorf("failed to decode %s: %w", schema.Name(), err)
	}
	return record, nil
}

// StripFences returns the content between the first and last triple-backtick
// fence, minus an optional json tag. A lone fence is simply removed.
func StripFences(raw string) string {
	first := strings.Index(raw, fence)
	if first < 0 {
		return strings.TrimSpace(raw)
	}

	last := strings.LastIndex(raw, fence)
	if last == first {
		return strings.TrimSpace(raw[:first] + dropJSONTag(raw[first+len(fence):]))
	}

	return strings.TrimSpace(dropJSONTag(raw[first+len(fence) : last]))
}

func dropJSONTag(s string) string {
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		return s[4:]
	}
	return s
}

// parseDirect accepts text that is, in its entirety, a non-empty JSON array.
func parseDirect(text string) ([]json.RawMessage, error) {
	var objects []json.RawMessage
	if err := json.Unmarshal([]byte(text), &objects); err != nil {
		return nil, errNoArray
	}
	if len(objects) == 0 {
		return nil, errNoArray
	}
	return objects, nil
}

// findArraySubstring looks for the first "[ {...} ]" run that parses. The
// shortest match is tried first and then extended to each later ']' so
// arrays nested inside objects do not cut the candidate short.
func findArraySubstring(raw string) ([]json.RawMessage, error) {
	for offset := 0; offset < len(raw); {
		loc := arrayCandidate.FindStringIndex(raw[offset:])
		if loc == nil {
			break
		}

		start, end := offset+loc[0], offset+loc[1]
		for {
			if objects, err := parseDirect(raw[start:end]); err == nil {
				return objects, nil
			}
			next := strings.IndexByte(raw[end:], ']')
			if next < 0 {
				break
			}
			end += next + 1
		}

		offset = start + 1
	}

	return nil, errNoArray
}

// findBlockObjects parses every balanced top-level object inside the first
// json code block. A block missing its closing fence runs to the end of the
// text. Objects that fail to parse are logged and skipped.
func findBlockObjects(raw string) ([]json.RawMessage, error) {
	var block string
	if m := jsonBlock.FindStringSubmatch(raw); m != nil {
		block = m[1]
	} else if m := jsonBlockOpen.FindStringSubmatch(raw); m != nil {
		block = m[1]
	} else {
		return nil, errNoBlock
	}

	var objects []json.RawMessage
	for _, candidate := range scanObjects(block) {
		if !json.Valid([]byte(candidate)) {
			log.Printf("⚠️ Failed to decode block: %s", apperrors.Excerpt(candidate))
			continue
		}
		objects = append(objects, json.RawMessage(candidate))
	}

	if len(objects) == 0 {
		return nil, errNoObject
	}
	return objects, nil
}

// scanObjects returns every top-level brace-balanced substring of s in
// order. Braces inside string literals do not count. An object that never
// closes is skipped and the scan resumes at the next '{'.
func scanObjects(s string) []string {
	var out []string
	for i := 0; i < len(s); {
		if s[i] != '{' {
			i++
			continue
		}
		end := matchingBrace(s, i)
		if end < 0 {
			i++
			continue
		}
		out = append(out, s[i:end+1])
		i = end + 1
	}
	return out
}

func matchingBrace(s string, start int) int {
	depth := 0
	inString, escaped := false, false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
