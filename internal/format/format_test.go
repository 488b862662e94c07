package format

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"livewatch-cli/internal/model"
)

func TestWriteJSON_EnvelopeKeepsUnicode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := Envelope{Data: []model.Anchor{{ID: "1", Name: "张三", DouyinID: "dy1", IsFollowed: true}}}
	if err := Write(&buf, v, "json", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, `{"data":[{"id":1,"name":"张三"`) {
		t.Fatalf("unexpected json: %s", got)
	}
	if strings.Contains(got, `"meta"`) {
		t.Fatalf("empty meta should be omitted: %s", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Fatalf("expected trailing newline")
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteEDN(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	v := map[string]any{
		"data": map[string]any{
			"douyin_id":   "dy1",
			"is_followed": true,
			"room_id":     nil,
			"video_size":  int64(9007199254740993),
			"created_at":  ts.Format(time.RFC3339),
			"name":        "not_a_time",
			"core_points": []string{"a", "b"},
		},
	}

	var buf bytes.Buffer
	if err := WriteEDN(&buf, v, false); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := `{:data {:core-points ["a" "b"] :created-at #inst "2024-05-01T08:30:00Z" :douyin-id "dy1" :is-followed true :name "not_a_time" :room-id nil :video-size 9007199254740993}}` + "\n"
	if buf.String() != want {
		t.Fatalf("edn mismatch:\n got: %s\nwant: %s", buf.String(), want)
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"a": []int{1, 2}, "b": map[string]any{}}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :a [\n    1\n    2\n  ]\n  :b {}\n}\n"
	if buf.String() != want {
		t.Fatalf("pretty edn mismatch:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestHumanBytes(t *testing.T) {
	t.Parallel()

	tests := map[int64]string{
		0:               "0 B",
		1023:            "1023 B",
		1536:            "1.5 KiB",
		5 * 1024 * 1024: "5.0 MiB",
		3 << 30:         "3.0 GiB",
	}
	for in, want := range tests {
		if got := HumanBytes(in); got != want {
			t.Fatalf("HumanBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
