package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"livewatch-cli/internal/console"
	"livewatch-cli/internal/devserver"
	"livewatch-cli/internal/transport"
)

// newBackend serves a seeded devserver and isolates config and state in a temp dir.
// It uses t.Setenv, so callers must not run in parallel.
func newBackend(t *testing.T) string {
	t.Helper()

	t.Setenv("LIVEWATCH_CONFIG_DIR", t.TempDir())
	for _, k := range []string{"LIVEWATCH_BASE_URL", "LIVEWATCH_TIMEOUT", "LIVEWATCH_FORMAT", "LIVEWATCH_LOG_FILE", "LIVEWATCH_METRICS_ADDR"} {
		t.Setenv(k, "")
	}
	t.Setenv("LIVEWATCH_LOG_LEVEL", "error")

	srv := httptest.NewServer(devserver.New(devserver.Options{Seed: true}).Handler())
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func decodeEnvelope(t *testing.T, b []byte) (data any, meta map[string]any) {
	t.Helper()
	var env struct {
		Data any            `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, string(b))
	}
	return env.Data, env.Meta
}

func TestAnchorsList_FollowedFilterAndMeta(t *testing.T) {
	api := newBackend(t)

	out, errOut, err := runCLI(t, []string{"--base-url", api, "anchors", "list", "--followed", "true"})
	if err != nil {
		t.Fatalf("anchors list: %v\n%s", err, string(errOut))
	}
	data, meta := decodeEnvelope(t, out)
	items, ok := data.([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected 2 followed anchors, got %#v", data)
	}
	first := items[0].(map[string]any)
	if first["name"] != "张财经" || first["douyin_id"] != "zhangcaijing" || first["is_followed"] != true {
		t.Fatalf("unexpected first anchor: %#v", first)
	}
	if meta["total"] != float64(2) || meta["count"] != float64(2) || meta["pages"] != float64(1) {
		t.Fatalf("unexpected meta: %#v", meta)
	}
}

func TestAnchorsList_RejectsBadFollowedValue(t *testing.T) {
	api := newBackend(t)

	_, errOut, err := runCLI(t, []string{"--base-url", api, "anchors", "list", "--followed", "maybe"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if ExitCode(err) != ExitUsage {
		t.Fatalf("exit code: got %d", ExitCode(err))
	}
	if !strings.Contains(string(errOut), "--followed must be true or false") {
		t.Fatalf("unexpected stderr: %s", string(errOut))
	}
}

func TestAnchorsLifecycle_JournalsEachMutation(t *testing.T) {
	api := newBackend(t)

	out, errOut, err := runCLI(t, []string{"--base-url", api, "anchors", "add", "--name", "赵宏观", "--douyin-id", "zhaohg", "--room-id", "9001"})
	if err != nil {
		t.Fatalf("anchors add: %v\n%s", err, string(errOut))
	}
	if !strings.Contains(string(errOut), "anchor created") {
		t.Fatalf("expected created notice, got %q", string(errOut))
	}
	data, _ := decodeEnvelope(t, out)
	created := data.(map[string]any)
	id, _ := created["id"].(string)
	if id != "4" || created["room_id"] != "9001" || created["is_followed"] != true {
		t.Fatalf("unexpected created anchor: %#v", created)
	}

	out, errOut, err = runCLI(t, []string{"--base-url", api, "anchors", "update", id, "--name", "赵老师", "--followed=false"})
	if err != nil {
		t.Fatalf("anchors update: %v\n%s", err, string(errOut))
	}
	if !strings.Contains(string(errOut), "anchor updated") {
		t.Fatalf("expected updated notice, got %q", string(errOut))
	}
	data, _ = decodeEnvelope(t, out)
	updated := data.(map[string]any)
	if updated["name"] != "赵老师" || updated["is_followed"] != false {
		t.Fatalf("unexpected updated anchor: %#v", updated)
	}
	// Fields without a flag keep their current value.
	if updated["room_id"] != "9001" {
		t.Fatalf("room_id should be kept, got %#v", updated["room_id"])
	}

	out, errOut, err = runCLI(t, []string{"--base-url", api, "anchors", "delete", id})
	if err != nil {
		t.Fatalf("anchors delete: %v\n%s", err, string(errOut))
	}
	if !strings.Contains(string(errOut), "anchor 4 deleted") {
		t.Fatalf("expected deleted notice, got %q", string(errOut))
	}
	data, meta := decodeEnvelope(t, out)
	if data.(map[string]any)["deleted"] != true {
		t.Fatalf("unexpected delete output: %#v", data)
	}
	// The refetch after the delete sees the three seeded anchors again.
	if meta["remaining"] != float64(3) {
		t.Fatalf("expected remaining=3 after refetch, got %#v", meta)
	}

	out, errOut, err = runCLI(t, []string{"journal"})
	if err != nil {
		t.Fatalf("journal: %v\n%s", err, string(errOut))
	}
	data, meta = decodeEnvelope(t, out)
	entries := data.([]any)
	if len(entries) != 3 || meta["count"] != float64(3) {
		t.Fatalf("expected 3 journal entries, got %#v", data)
	}
	var ops []string
	for _, e := range entries {
		m := e.(map[string]any)
		if m["anchorId"] != "4" {
			t.Fatalf("unexpected anchor id in entry: %#v", m)
		}
		ops = append(ops, m["op"].(string))
	}
	if strings.Join(ops, ",") != "anchor.create,anchor.update,anchor.delete" {
		t.Fatalf("unexpected ops: %v", ops)
	}
	if s, _ := meta["consoleId"].(string); s == "" {
		t.Fatalf("expected a console id in meta: %#v", meta)
	}
}

func TestAnchorsAdd_MissingFieldsSendsNothing(t *testing.T) {
	api := newBackend(t)

	out, errOut, err := runCLI(t, []string{"--base-url", api, "anchors", "add", "--name", "No Platform"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if ExitCode(err) != ExitValidation {
		t.Fatalf("exit code: got %d", ExitCode(err))
	}
	if len(out) != 0 {
		t.Fatalf("expected no stdout, got %s", string(out))
	}
	if !strings.Contains(string(errOut), "error: cannot create anchor: missing required fields: douyin_id") {
		t.Fatalf("unexpected stderr: %q", string(errOut))
	}

	out, _, err = runCLI(t, []string{"--base-url", api, "anchors", "list"})
	if err != nil {
		t.Fatalf("anchors list: %v", err)
	}
	if _, meta := decodeEnvelope(t, out); meta["total"] != float64(3) {
		t.Fatalf("nothing should have been created, meta=%#v", meta)
	}
}

func TestAnchorsAdd_DuplicateShowsBackendMessage(t *testing.T) {
	api := newBackend(t)

	_, errOut, err := runCLI(t, []string{"--base-url", api, "anchors", "add", "--name", "Copy", "--douyin-id", "zhangcaijing"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if ExitCode(err) != ExitBackend {
		t.Fatalf("exit code: got %d", ExitCode(err))
	}
	if !strings.Contains(string(errOut), "failed to create anchor: Anchor already exists") {
		t.Fatalf("unexpected stderr: %q", string(errOut))
	}
}

func TestAnchorsUpdateAndDelete_NotFound(t *testing.T) {
	api := newBackend(t)

	_, errOut, err := runCLI(t, []string{"--base-url", api, "anchors", "update", "99", "--name", "x"})
	if ExitCode(err) != ExitNotFound {
		t.Fatalf("update exit code: got %d (%v)", ExitCode(err), err)
	}
	if !strings.Contains(string(errOut), "anchor not found: 99") {
		t.Fatalf("unexpected stderr: %q", string(errOut))
	}

	_, errOut, err = runCLI(t, []string{"--base-url", api, "anchors", "delete", "99"})
	if ExitCode(err) != ExitNotFound {
		t.Fatalf("delete exit code: got %d (%v)", ExitCode(err), err)
	}
	if !strings.Contains(string(errOut), "failed to delete anchor 99: Anchor not found") {
		t.Fatalf("unexpected stderr: %q", string(errOut))
	}
}

func TestRecordingsList_Filters(t *testing.T) {
	api := newBackend(t)

	out, errOut, err := runCLI(t, []string{"--base-url", api, "recordings", "list", "--anchor-id", "2"})
	if err != nil {
		t.Fatalf("recordings list: %v\n%s", err, string(errOut))
	}
	data, _ := decodeEnvelope(t, out)
	if n := len(data.([]any)); n != 2 {
		t.Fatalf("expected 2 recordings for anchor 2, got %d", n)
	}

	out, _, err = runCLI(t, []string{"--base-url", api, "recordings", "list", "--status", "failed"})
	if err != nil {
		t.Fatalf("recordings list --status: %v", err)
	}
	data, _ = decodeEnvelope(t, out)
	items := data.([]any)
	if len(items) != 1 || items[0].(map[string]any)["status"] != "failed" {
		t.Fatalf("expected one failed recording, got %#v", data)
	}

	_, _, err = runCLI(t, []string{"--base-url", api, "recordings", "list", "--status", "archived"})
	if ExitCode(err) != ExitUsage {
		t.Fatalf("expected usage error for unknown status, got %v", err)
	}
}

func TestRecordingsShow_IncludesSummary(t *testing.T) {
	api := newBackend(t)

	out, errOut, err := runCLI(t, []string{"--base-url", api, "recordings", "show", "1"})
	if err != nil {
		t.Fatalf("recordings show: %v\n%s", err, string(errOut))
	}
	data, _ := decodeEnvelope(t, out)
	rec := data.(map[string]any)
	if rec["status"] != "completed" {
		t.Fatalf("unexpected recording: %#v", rec)
	}
	summary, ok := rec["summary"].(map[string]any)
	if !ok || summary["status"] != "completed" {
		t.Fatalf("expected embedded summary, got %#v", rec["summary"])
	}

	_, errOut, err = runCLI(t, []string{"--base-url", api, "recordings", "show", "42"})
	if ExitCode(err) != ExitNotFound || !strings.Contains(string(errOut), "recording not found: 42") {
		t.Fatalf("expected not found, got %v / %q", err, string(errOut))
	}
}

func TestSummariesShow_NormalizesLists(t *testing.T) {
	api := newBackend(t)

	out, errOut, err := runCLI(t, []string{"--base-url", api, "summaries", "show", "1"})
	if err != nil {
		t.Fatalf("summaries show: %v\n%s", err, string(errOut))
	}
	data, _ := decodeEnvelope(t, out)
	s := data.(map[string]any)
	points, ok := s["core_points"].([]any)
	if !ok || len(points) != 3 || points[0] != "半导体板块放量" {
		t.Fatalf("unexpected core_points: %#v", s["core_points"])
	}
	keywords, ok := s["keywords"].([]any)
	if !ok || len(keywords) != 3 {
		t.Fatalf("unexpected keywords: %#v", s["keywords"])
	}

	out, _, err = runCLI(t, []string{"--base-url", api, "summaries", "list"})
	if err != nil {
		t.Fatalf("summaries list: %v", err)
	}
	if _, meta := decodeEnvelope(t, out); meta["total"] != float64(2) {
		t.Fatalf("unexpected meta: %#v", meta)
	}
}

func TestStatus_ReportsCounts(t *testing.T) {
	api := newBackend(t)

	out, errOut, err := runCLI(t, []string{"--base-url", api, "status"})
	if err != nil {
		t.Fatalf("status: %v\n%s", err, string(errOut))
	}
	data, _ := decodeEnvelope(t, out)
	db := data.(map[string]any)["database"].(map[string]any)
	if db["anchor_count"] != float64(3) || db["recording_count"] != float64(3) || db["summary_count"] != float64(2) {
		t.Fatalf("unexpected counts: %#v", db)
	}
}

func TestFormatEDN(t *testing.T) {
	api := newBackend(t)

	out, errOut, err := runCLI(t, []string{"--base-url", api, "--format", "edn", "summaries", "show", "1"})
	if err != nil {
		t.Fatalf("summaries show: %v\n%s", err, string(errOut))
	}
	s := string(out)
	if !strings.HasPrefix(s, "{:data {") || !strings.Contains(s, ":core-points [") {
		t.Fatalf("unexpected EDN output: %s", s)
	}
}

func TestBackendUnreachable(t *testing.T) {
	newBackend(t)

	srv := httptest.NewServer(nil)
	api := srv.URL + "/api"
	srv.Close()

	out, errOut, err := runCLI(t, []string{"--base-url", api, "--timeout", "2s", "anchors", "list"})
	if ExitCode(err) != ExitTransport {
		t.Fatalf("exit code: got %d (%v)", ExitCode(err), err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no stdout, got %s", string(out))
	}
	if !strings.Contains(string(errOut), "error: backend unreachable") {
		t.Fatalf("unexpected stderr: %q", string(errOut))
	}
}

func TestConfigPrecedence_FlagOverEnvOverFile(t *testing.T) {
	newBackend(t)
	dir := os.Getenv("LIVEWATCH_CONFIG_DIR")
	cfgYAML := "api:\n  base_url: http://file.example/api\n  timeout: 3s\noutput:\n  format: json\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	show := func(args ...string) map[string]any {
		t.Helper()
		out, errOut, err := runCLI(t, append(args, "config", "show"))
		if err != nil {
			t.Fatalf("config show: %v\n%s", err, string(errOut))
		}
		data, meta := decodeEnvelope(t, out)
		if meta["path"] != filepath.Join(dir, "config.yaml") {
			t.Fatalf("unexpected path: %#v", meta)
		}
		return data.(map[string]any)["api"].(map[string]any)
	}

	if api := show(); api["baseUrl"] != "http://file.example/api" || api["timeout"] != "3s" {
		t.Fatalf("file values not applied: %#v", api)
	}

	t.Setenv("LIVEWATCH_BASE_URL", "http://env.example/api")
	if api := show(); api["baseUrl"] != "http://env.example/api" {
		t.Fatalf("env should override file: %#v", api)
	}

	if api := show("--base-url", "http://flag.example/api", "--timeout", "7s"); api["baseUrl"] != "http://flag.example/api" || api["timeout"] != "7s" {
		t.Fatalf("flags should override env: %#v", api)
	}
}

func TestConfigInit_RefusesToOverwrite(t *testing.T) {
	newBackend(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if _, errOut, err := runCLI(t, []string{"--config", path, "config", "init"}); err != nil {
		t.Fatalf("config init: %v\n%s", err, string(errOut))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	if !strings.Contains(string(b), "base_url: http://localhost:5000/api") {
		t.Fatalf("unexpected config file:\n%s", string(b))
	}

	_, errOut, err := runCLI(t, []string{"--config", path, "config", "init"})
	if ExitCode(err) != ExitUsage || !strings.Contains(string(errOut), "already exists") {
		t.Fatalf("expected refusal, got %v / %q", err, string(errOut))
	}

	if _, _, err := runCLI(t, []string{"--config", path, "config", "init", "--force"}); err != nil {
		t.Fatalf("config init --force: %v", err)
	}
}

func TestInvalidConfigIsReportedOnce(t *testing.T) {
	newBackend(t)

	_, errOut, err := runCLI(t, []string{"--base-url", "not a url", "status"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsReported(err) || ExitCode(err) != ExitUsage {
		t.Fatalf("unexpected error classification: %v", err)
	}
	if strings.Count(string(errOut), "error:") != 1 || !strings.Contains(string(errOut), "invalid configuration") {
		t.Fatalf("unexpected stderr: %q", string(errOut))
	}
}

func TestDocs(t *testing.T) {
	newBackend(t)

	out, _, err := runCLI(t, []string{"docs"})
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	data, _ := decodeEnvelope(t, out)
	topics := data.(map[string]any)["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected topics, got %#v", data)
	}

	out, _, err = runCLI(t, []string{"docs", "exit-codes", "--raw"})
	if err != nil {
		t.Fatalf("docs exit-codes: %v", err)
	}
	if !strings.HasPrefix(string(out), "# Exit codes") {
		t.Fatalf("unexpected raw docs: %s", string(out))
	}

	_, errOut, err := runCLI(t, []string{"docs", "nope"})
	if ExitCode(err) != ExitUsage || !strings.Contains(string(errOut), "unknown docs topic") {
		t.Fatalf("expected unknown topic error, got %v / %q", err, string(errOut))
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"validation", &console.ValidationError{Missing: []string{"name"}}, ExitValidation},
		{"reported usage", reported(usageError{msg: "bad"}), ExitUsage},
		{"config", configError{errors.New("x")}, ExitUsage},
		{"transport", &transport.Error{Kind: transport.KindTransport, Err: errors.New("refused")}, ExitTransport},
		{"backend", &transport.Error{Kind: transport.KindBackend, Status: 400}, ExitBackend},
		{"backend 404", reported(&transport.Error{Kind: transport.KindBackend, Status: 404}), ExitNotFound},
		{"not found", errNotFound("anchor", "9"), ExitNotFound},
		{"other", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Fatalf("%s: got %d want %d", tt.name, got, tt.want)
		}
	}
}

func TestSummariesExport(t *testing.T) {
	api := newBackend(t)
	dir := t.TempDir()

	out, errOut, err := runCLI(t, []string{"--base-url", api, "summaries", "export", "--to", dir})
	if err != nil {
		t.Fatalf("summaries export: %v\n%s", err, string(errOut))
	}
	data, meta := decodeEnvelope(t, out)
	res := data.(map[string]any)
	// Summary 2 is still generating.
	if skipped := res["skipped"].([]any); len(skipped) != 1 || skipped[0] != "2" {
		t.Fatalf("unexpected skipped: %#v", res)
	}
	if meta["count"] != float64(1) {
		t.Fatalf("unexpected meta: %#v", meta)
	}
	b, err := os.ReadFile(filepath.Join(dir, "summaries", "summary-1.md"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	for _, want := range []string{"# 张财经 · summary 1", "## Market analysis", "## Investment advice"} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("expected %q in export:\n%s", want, string(b))
		}
	}

	_, errOut, err = runCLI(t, []string{"--base-url", api, "summaries", "export", "--to", dir})
	if err == nil || !strings.Contains(string(errOut), "file exists") {
		t.Fatalf("expected overwrite guard, got %v / %q", err, string(errOut))
	}
}
