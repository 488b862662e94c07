package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an opaque backend identifier. The backend emits integers; the client never
// interprets them, so both JSON numbers and strings are accepted.
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits canonical integer ids as numbers so request bodies match what the
// backend sent. Anything else, "007" included, stays a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// StringList decodes the backend's core_points column. It is a text column server-side,
// so a value may arrive as a JSON array, as a JSON array encoded inside a string, or as
// newline separated text with optional "- " bullets. Array elements are kept as sent.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	xs, err := decodeList(b, "\n")
	*l = xs
	return err
}

// KeywordList decodes the keywords column, which may also be comma separated text.
type KeywordList []string

func (l *KeywordList) UnmarshalJSON(b []byte) error {
	xs, err := decodeList(b, "\n,")
	*l = KeywordList(xs)
	return err
}

func decodeList(b []byte, seps string) (StringList, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	switch b[0] {
	case '[':
		var xs []string
		if err := json.Unmarshal(b, &xs); err != nil {
			return nil, err
		}
		return compact(xs), nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, err
		}
		return ParseStringList(s, seps), nil
	default:
		return nil, fmt.Errorf("string list: unexpected JSON %s", string(b))
	}
}

// ParseStringList splits free text on the first separator in seps that occurs in s. A
// string holding a JSON array is decoded as one.
func ParseStringList(s, seps string) StringList {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var xs []string
		if err := json.Unmarshal([]byte(s), &xs); err == nil {
			return compact(xs)
		}
	}
	parts := []string{s}
	for _, sep := range seps {
		if strings.ContainsRune(s, sep) {
			parts = strings.Split(s, string(sep))
			break
		}
	}
	for i, p := range parts {
		parts[i] = trimBullet(strings.TrimSpace(p))
	}
	return compact(parts)
}

// trimBullet drops a markdown list marker. The marker needs a following space so
// "-5%" keeps its sign.
func trimBullet(s string) string {
	for _, m := range []string{"- ", "• ", "* "} {
		if strings.HasPrefix(s, m) {
			return strings.TrimSpace(s[len(m):])
		}
	}
	return s
}

// compact drops blank entries and trims surrounding whitespace.
func compact(xs []string) StringList {
	out := make(StringList, 0, len(xs))
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
