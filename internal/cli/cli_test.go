package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

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

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: montage %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v\nstdout:\n%s", env, string(stdout))
	}
	return env
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data; got: %#v", env["data"])
	}
	return m
}

func TestCLITimelineSmoke(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, "--dir", dir, "init")

	tr := mustRun(t, "--dir", dir, "tracks", "add")
	trackID, _ := dataMap(t, tr)["id"].(string)
	if trackID == "" {
		t.Fatalf("tracks add returned no id: %#v", tr["data"])
	}

	a := mustRun(t, "--dir", dir, "clips", "add",
		"--track", trackID, "--type", "video",
		"--start", "0", "--duration", "2000", "--origin-duration", "8000",
		"--label", "take 1")
	clipA, _ := dataMap(t, a)["id"].(string)
	if clipA == "" {
		t.Fatalf("clips add returned no id: %#v", a["data"])
	}

	// A second video clip dropped onto occupied space must make room and
	// land without gaps.
	b := mustRun(t, "--dir", dir, "clips", "add",
		"--track", trackID, "--type", "video",
		"--start", "500", "--duration", "1000", "--origin-duration", "8000")
	clipB, _ := dataMap(t, b)["id"].(string)

	ls := mustRun(t, "--dir", dir, "clips", "ls", "--track", trackID)
	rows, _ := ls["data"].([]any)
	if len(rows) != 2 {
		t.Fatalf("clips ls = %d rows, want 2", len(rows))
	}
	first, _ := rows[0].(map[string]any)
	if start, _ := first["start"].(float64); start != 0 {
		t.Fatalf("first clip start = %v, want 0 (gapless)", first["start"])
	}

	// After making room, A sits at [1000,3000). Split it mid-clip and
	// verify the halves share the source timeline.
	sp := mustRun(t, "--dir", dir, "clips", "split", clipA, "--at", "2000")
	spData := dataMap(t, sp)
	right, _ := spData["right"].(map[string]any)
	if ss, _ := right["sourceStart"].(float64); ss != 1000 {
		t.Fatalf("right half sourceStart = %v, want 1000", right["sourceStart"])
	}
	rightID, _ := right["id"].(string)

	mustRun(t, "--dir", dir, "clips", "merge", clipA, rightID)
	show := mustRun(t, "--dir", dir, "clips", "show", clipA)
	merged, _ := dataMap(t, show)["clip"].(map[string]any)
	if d, _ := merged["duration"].(float64); d != 2000 {
		t.Fatalf("merged duration = %v, want 2000", merged["duration"])
	}

	// Removing B closes its gap; the log has every committed mutation.
	mustRun(t, "--dir", dir, "clips", "rm", clipB)
	evs := mustRun(t, "--dir", dir, "events", "list")
	evRows, _ := evs["data"].([]any)
	if len(evRows) < 5 {
		t.Fatalf("events = %d, want one per committed mutation", len(evRows))
	}

	doc := mustRun(t, "--dir", dir, "doctor")
	d := dataMap(t, doc)
	if d["overlapsFixed"] != false || d["gapsClosed"] != false {
		t.Fatalf("doctor found damage on a maintained timeline: %#v", d)
	}
}

func TestCLIKeyframeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")
	tr := mustRun(t, "--dir", dir, "tracks", "add")
	trackID, _ := dataMap(t, tr)["id"].(string)
	c := mustRun(t, "--dir", dir, "clips", "add",
		"--track", trackID, "--type", "text", "--duration", "3000", "--label", "title")
	clipID, _ := dataMap(t, c)["id"].(string)

	mustRun(t, "--dir", dir, "keyframes", "add", clipID,
		"--property", "opacity", "--offset", "0.5", "--value", "0.8")
	// A keyframe within the merge distance updates in place.
	mustRun(t, "--dir", dir, "keyframes", "add", clipID,
		"--property", "opacity", "--offset", "0.505", "--value", "0.2")

	ls := mustRun(t, "--dir", dir, "keyframes", "ls", clipID, "--property", "opacity")
	rows, _ := ls["data"].([]any)
	if len(rows) != 1 {
		t.Fatalf("keyframes = %d, want merged single", len(rows))
	}
	kf, _ := rows[0].(map[string]any)
	vals, _ := kf["value"].([]any)
	if len(vals) != 1 || vals[0].(float64) != 0.2 {
		t.Fatalf("keyframe value = %#v, want last write 0.2", kf["value"])
	}
}

func TestCLIImportAsset(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")

	descPath := filepath.Join(t.TempDir(), "asset.json")
	desc := `{"id":"asset-1","type":"image","name":"logo.png"}`
	if err := os.WriteFile(descPath, []byte(desc), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	res := mustRun(t, "--dir", dir, "import", descPath, "--at", "1200")
	clip := dataMap(t, res)
	if d, _ := clip["duration"].(float64); d != 3000 {
		t.Fatalf("image duration = %v, want default 3000", clip["duration"])
	}
	if l, _ := clip["label"].(string); l != "logo.png" {
		t.Fatalf("label = %q, want logo.png", l)
	}
}

func TestCLICleanupApply(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")
	tr := mustRun(t, "--dir", dir, "tracks", "add")
	trackID, _ := dataMap(t, tr)["id"].(string)
	c := mustRun(t, "--dir", dir, "clips", "add",
		"--track", trackID, "--type", "video",
		"--duration", "1000", "--origin-duration", "4000")
	clipID, _ := dataMap(t, c)["id"].(string)

	planPath := filepath.Join(t.TempDir(), "plan.yaml")
	plan := "clips:\n  - id: " + clipID + "\n    action: tag\n    tags: [filler]\n"
	if err := os.WriteFile(planPath, []byte(plan), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	res := mustRun(t, "--dir", dir, "cleanup", "apply", planPath)
	sum := dataMap(t, res)
	tagged, _ := sum["Tagged"].([]any)
	if len(tagged) != 1 {
		t.Fatalf("tagged = %#v, want one clip", sum["Tagged"])
	}

	show := mustRun(t, "--dir", dir, "clips", "show", clipID)
	clip, _ := dataMap(t, show)["clip"].(map[string]any)
	meta, _ := clip["metadata"].(map[string]any)
	if meta["tags"] != "filler" {
		t.Fatalf("metadata = %#v, want tags=filler", clip["metadata"])
	}
}

func TestCLILockedTrackRefusesMutation(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")
	tr := mustRun(t, "--dir", dir, "tracks", "add")
	trackID, _ := dataMap(t, tr)["id"].(string)
	c := mustRun(t, "--dir", dir, "clips", "add",
		"--track", trackID, "--type", "video",
		"--duration", "1000", "--origin-duration", "4000")
	clipID, _ := dataMap(t, c)["id"].(string)

	mustRun(t, "--dir", dir, "tracks", "set", trackID, "--locked")

	if _, _, err := runCLI(t, []string{"--dir", dir, "clips", "rm", clipID}); err == nil {
		t.Fatalf("expected locked-track refusal")
	}
	// Reads still work.
	mustRun(t, "--dir", dir, "clips", "show", clipID)

	mustRun(t, "--dir", dir, "tracks", "set", trackID, "--locked=false")
	mustRun(t, "--dir", dir, "clips", "rm", clipID)
}

func TestCLIExportWritesMarkdown(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")
	tr := mustRun(t, "--dir", dir, "tracks", "add")
	trackID, _ := dataMap(t, tr)["id"].(string)
	mustRun(t, "--dir", dir, "clips", "add",
		"--track", trackID, "--type", "video",
		"--duration", "1000", "--origin-duration", "4000", "--label", "opener")

	out := t.TempDir()
	res := mustRun(t, "--dir", dir, "export", "--to", out)
	written, _ := dataMap(t, res)["written"].([]any)
	if len(written) != 2 {
		t.Fatalf("written = %v, want index plus one clip page", written)
	}
	b, err := os.ReadFile(filepath.Join(out, "timeline.md"))
	if err != nil {
		t.Fatalf("read timeline.md: %v", err)
	}
	if !strings.Contains(string(b), "opener") {
		t.Fatalf("timeline.md missing clip label:\n%s", b)
	}
}

func TestCLIUnknownClipFails(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")
	if _, _, err := runCLI(t, []string{"--dir", dir, "clips", "rm", "clip-missing"}); err == nil {
		t.Fatalf("expected error for unknown clip id")
	}
}
