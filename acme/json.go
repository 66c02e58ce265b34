package acme

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNotJSON is returned by ParseJSONValue and ParseJSONResponse when a
// response body is absent, and by ParseJSONResponse also when the body's
// Content-Type does not advertise JSON. A body that is present but fails to
// decode yields the decoder's own error instead. Callers use ErrNotJSON to
// fall through to a raw-response handler rather than treating it as a hard
// parse failure.
var ErrNotJSON = errors.New("acme: response body is not a JSON object")

// JSONValue is a thin, serialization-focused wrapper around a decoded JSON
// object. It is deliberately narrow: the pipeline only ever needs to read a
// handful of string fields out of directory and problem documents, clone a
// body into a caller's own copy, and re-serialize it.
type JSONValue struct {
	v map[string]interface{}
}

// ParseJSONValue decodes body as a JSON object, with no regard for its
// declared Content-Type. An empty body yields ErrNotJSON; a non-empty body
// that fails to decode is a genuine malformed-JSON error, distinct from
// ErrNotJSON. Used by the Directory Resolver, which has no "maybe this
// isn't JSON at all" fallback to consider.
func ParseJSONValue(body []byte) (*JSONValue, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrNotJSON
	}
	var m map[string]interface{}
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	return &JSONValue{v: m}, nil
}

// ParseJSONResponse is the response-pipeline variant: an empty body, or a
// Content-Type that doesn't advertise JSON, is treated as "no JSON to see
// here" (ErrNotJSON, the caller's cue to fall through to a raw-response
// handler); a JSON-advertised body that fails to decode is a genuine
// malformed-JSON error.
func ParseJSONResponse(contentType string, body []byte) (*JSONValue, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrNotJSON
	}
	if !looksLikeJSON(contentType) {
		return nil, ErrNotJSON
	}
	var m map[string]interface{}
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	return &JSONValue{v: m}, nil
}

func looksLikeJSON(contentType string) bool {
	return bytes.Contains([]byte(contentType), []byte("json"))
}

// GetString walks path through nested JSON objects and returns the string
// found at the end of it. path = ["meta", "termsOfService"] looks up
// v["meta"]["termsOfService"]. Returns ("", false) if any segment is
// missing, not an object (except the last, which must be a string), or the
// terminal value isn't a string.
func (j *JSONValue) GetString(path ...string) (string, bool) {
	if j == nil || len(path) == 0 {
		return "", false
	}
	cur := j.v
	for i, key := range path {
		val, ok := cur[key]
		if !ok {
			return "", false
		}
		if i == len(path)-1 {
			s, ok := val.(string)
			return s, ok
		}
		next, ok := val.(map[string]interface{})
		if !ok {
			return "", false
		}
		cur = next
	}
	return "", false
}

// Has reports whether key is present at the top level — directory dialect
// detection keys off the presence of specific endpoint names.
func (j *JSONValue) Has(key string) bool {
	if j == nil {
		return false
	}
	_, ok := j.v[key]
	return ok
}

// Clone returns a deep copy of the value, decoupling it from whatever
// transport buffer it was originally decoded from.
func (j *JSONValue) Clone() *JSONValue {
	if j == nil {
		return nil
	}
	raw, err := json.Marshal(j.v)
	if err != nil {
		return &JSONValue{v: map[string]interface{}{}}
	}
	var cp map[string]interface{}
	_ = json.Unmarshal(raw, &cp)
	return &JSONValue{v: cp}
}

// MarshalCompact renders the value as compact JSON, the form ACME request
// payloads are signed over.
func (j *JSONValue) MarshalCompact() ([]byte, error) {
	return json.Marshal(j.v)
}

// MarshalIndent renders the value as indented JSON, used by callers that
// log or display a document for a human.
func (j *JSONValue) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(j.v, "", "  ")
}
