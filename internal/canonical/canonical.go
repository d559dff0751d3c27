package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// EncodeError reports a value that cannot be canonically encoded.
// Path locates the offending element within the root value, e.g.
// "transactions[1].amount".
type EncodeError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("canonical encode: %s", e.Message)
	}
	return fmt.Sprintf("canonical encode: %s: %s", e.Path, e.Message)
}

// Marshal produces the canonical JSON encoding of v.
//
// Supported value types: nil, bool, string, int, int64, uint64, float64,
// []float64, []any, and map[string]any (nested collections are
// canonicalized recursively). Anything else fails with *EncodeError, as
// do NaN and infinite floats.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any, path string) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case string:
		return encodeString(buf, val, path)
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
		return nil
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
		return nil
	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))
		return nil
	case float64:
		return encodeFloat(buf, val, path)
	case []float64:
		buf.WriteByte('[')
		for i, f := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeFloat(buf, f, elemPath(path, i)); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, elem, elemPath(path, i)); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case []map[string]any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, elem, elemPath(path, i)); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		return encodeObject(buf, val, path)
	default:
		return &EncodeError{Path: path, Message: fmt.Sprintf("unsupported type %T", v)}
	}
}

// encodeFloat formats a float as shortest round-trip decimal notation.
// Integral values render with no fraction digits ("3", not "3.0"), which
// keeps int-valued and float-valued inputs from producing distinct
// encodings of the same number.
func encodeFloat(buf *bytes.Buffer, f float64, path string) error {
	if math.IsNaN(f) {
		return &EncodeError{Path: path, Message: "NaN is not encodable"}
	}
	if math.IsInf(f, 0) {
		return &EncodeError{Path: path, Message: "infinity is not encodable"}
	}
	buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// encodeString writes a JSON string, NFC normalized and without HTML
// escaping. The stdlib encoder escapes < > & for embedding in HTML;
// content hashing must not depend on that.
func encodeString(buf *bytes.Buffer, s string, path string) error {
	normalized := norm.NFC.String(s)

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return &EncodeError{Path: path, Message: err.Error()}
	}

	// json.Encoder appends a trailing newline, drop it.
	out := tmp.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	buf.Write(out)
	return nil
}

func encodeObject(buf *bytes.Buffer, obj map[string]any, path string) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeString(buf, k, path); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encode(buf, obj[k], keyPath(path, k)); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func elemPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func keyPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
