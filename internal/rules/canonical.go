package rules

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// CanonicalJSON serializes the table deterministically: object keys sorted
// by UTF-16 code units, NFC-normalized strings, no HTML escaping, no
// floats. Two compilations of the same declarations produce byte-identical
// output, which makes the result suitable for golden comparison and for
// identifying a rule set by hash.
func (t *Table) CanonicalJSON() ([]byte, error) {
	list := make([]any, len(t.rules))
	for i, r := range t.rules {
		list[i] = r.canonicalMap()
	}
	return marshalCanonical(map[string]any{"rules": list})
}

// Hash returns the hex SHA-256 of the canonical table serialization.
func (t *Table) Hash() (string, error) {
	data, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (r *CompiledRule) canonicalMap() map[string]any {
	precs := make([]any, len(r.Preconditions))
	for i, p := range r.Preconditions {
		precs[i] = p.Describe()
	}
	cons := make([]any, len(r.Constraints))
	for i, c := range r.Constraints {
		cons[i] = c.Describe()
	}
	cond := make([]any, len(r.Conditional))
	for i, entry := range r.Conditional {
		cond[i] = map[string]any{
			"when":     entry.When.Describe(),
			"priority": entry.Priority.Name(),
		}
	}
	m := map[string]any{
		"name":          r.Name,
		"call":          r.Call.Name,
		"preconditions": precs,
		"constraints":   cons,
		"priority":      r.Priority.Name(),
		"conditional":   cond,
		"category":      r.Category.String(),
		"forcing":       r.Forcing,
	}
	if len(r.Tags) > 0 {
		tags := make([]any, len(r.Tags))
		for i, tag := range r.Tags {
			tags[i] = tag
		}
		m["tags"] = tags
	}
	return m
}

// MarshalCanonical serializes an arbitrary string/int/bool/array/map value
// under the same canonical rules as CanonicalJSON. Callers outside the
// compiler (the conformance harness, the CLI) use it for byte-stable
// serialization of their own structures. Null and floats are rejected.
func MarshalCanonical(v any) ([]byte, error) {
	return marshalCanonical(v)
}

func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return marshalCanonicalString(val)
	case int:
		return []byte(fmt.Sprintf("%d", val)), nil
	case int64:
		return []byte(fmt.Sprintf("%d", val)), nil
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case []any:
		return marshalCanonicalArray(val)
	case map[string]any:
		return marshalCanonicalObject(val)
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	case float32, float64:
		return nil, fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := marshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	// RFC 8785 sorts keys by UTF-16 code units, not UTF-8 bytes.
	sort.Slice(keys, func(i, j int) bool {
		return lessUTF16(keys[i], keys[j])
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyData, err := marshalCanonicalString(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyData)
		buf.WriteByte(':')
		valData, err := marshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("object[%q]: %w", k, err)
		}
		buf.Write(valData)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

// marshalCanonicalString emits a JSON string with the value NFC-normalized
// and HTML escaping disabled.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}
