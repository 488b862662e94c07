package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"livewatch-cli/internal/model"
)

// WriteEDN writes v as EDN. Values go through their JSON encoding first so json tags
// decide field names; snake_case keys become kebab-case keywords and backend timestamps
// under *_at/*_time/timestamp keys become #inst literals.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}

	var buf bytes.Buffer
	p := ednPrinter{pretty: pretty}
	p.value(&buf, "", x, 0)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type ednPrinter struct {
	pretty bool
}

func (p ednPrinter) value(buf *bytes.Buffer, key string, v any, depth int) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("nil")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case json.Number:
		buf.WriteString(t.String())
	case string:
		if inst, ok := instant(key, t); ok {
			buf.WriteString(`#inst "` + inst + `"`)
			return
		}
		buf.WriteString(strconv.Quote(t))
	case []any:
		p.seq(buf, key, t, depth)
	case map[string]any:
		p.assoc(buf, t, depth)
	default:
		buf.WriteString(strconv.Quote(fmt.Sprint(t)))
	}
}

func (p ednPrinter) seq(buf *bytes.Buffer, key string, xs []any, depth int) {
	buf.WriteByte('[')
	for i, it := range xs {
		p.sep(buf, i, depth+1)
		p.value(buf, key, it, depth+1)
	}
	p.close(buf, len(xs), depth)
	buf.WriteByte(']')
}

func (p ednPrinter) assoc(buf *bytes.Buffer, m map[string]any, depth int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		p.sep(buf, i, depth+1)
		buf.WriteString(Keyword(k))
		buf.WriteByte(' ')
		p.value(buf, k, m[k], depth+1)
	}
	p.close(buf, len(keys), depth)
	buf.WriteByte('}')
}

// sep starts element i: a newline and indent when pretty, a space between elements otherwise.
func (p ednPrinter) sep(buf *bytes.Buffer, i, depth int) {
	if p.pretty {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", depth))
		return
	}
	if i > 0 {
		buf.WriteByte(' ')
	}
}

func (p ednPrinter) close(buf *bytes.Buffer, n, depth int) {
	if p.pretty && n > 0 {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", depth))
	}
}

// Keyword turns a JSON key into an EDN keyword: "douyin_id" -> ":douyin-id".
func Keyword(k string) string {
	k = strings.TrimSpace(k)
	k = strings.NewReplacer("_", "-", " ", "-").Replace(k)
	if k == "" {
		k = "_"
	}
	return ":" + k
}

func instant(key, s string) (string, bool) {
	if !(strings.HasSuffix(key, "_at") || strings.HasSuffix(key, "_time") || key == "timestamp" || key == "at") {
		return "", false
	}
	t, ok := model.ParseTimestamp(s)
	if !ok {
		return "", false
	}
	return t.UTC().Format(time.RFC3339Nano), true
}
