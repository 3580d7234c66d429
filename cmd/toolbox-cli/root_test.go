package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestListPrintsModulesByCategory(t *testing.T) {
	dir := setupModules(t)
	out, err := execute(t, "list", "--modules", dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"CATEGORY", "backup", "Nightly Backup", "run,verify", "update", "ops/backup"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "backup") > strings.Index(out, "update") {
		t.Fatalf("expected Ops before System:\n%s", out)
	}
}

func TestListJSON(t *testing.T) {
	dir := setupModules(t)
	out, err := execute(t, "list", "--json", "--modules", dir)
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	if !strings.Contains(out, `"id": "update"`) || !strings.Contains(out, `"category": "System"`) {
		t.Fatalf("unexpected json:\n%s", out)
	}
}

func TestListModulesFlag(t *testing.T) {
	dir := setupModules(t)
	out, err := execute(t, "--list-modules", "--modules", dir)
	if err != nil {
		t.Fatalf("--list-modules: %v", err)
	}
	if !strings.Contains(out, "Nightly Backup") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestListEmptyDirectory(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	out, err := execute(t, "list", "--modules", dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No modules found under "+dir) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestShowModule(t *testing.T) {
	dir := setupModules(t)
	out, err := execute(t, "show", "backup", "--modules", dir)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Nightly Backup", "Category:", "Ops", "./backup.sh", "module.toml"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "show", "update", "--yaml", "--modules", dir)
	if err != nil {
		t.Fatalf("show --yaml: %v", err)
	}
	if !strings.Contains(out, "id: update") || !strings.Contains(out, "apply: apt upgrade") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}
}

func TestShowUnknownModule(t *testing.T) {
	dir := setupModules(t)
	if _, err := execute(t, "show", "nope", "--modules", dir); err == nil || !strings.Contains(err.Error(), "unknown module") {
		t.Fatalf("expected unknown module error, got %v", err)
	}
}

func TestRunDryRun(t *testing.T) {
	dir := setupModules(t)
	out, err := execute(t, "run", "backup", "--modules", dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Would run run: ./backup.sh") {
		t.Fatalf("expected dry-run of first action:\n%s", out)
	}

	out, err = execute(t, "run", "backup", "verify", "--modules", dir)
	if err != nil {
		t.Fatalf("run verify: %v", err)
	}
	if !strings.Contains(out, "Would run verify: ./verify.sh --full") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, err := execute(t, "run", "backup", "missing", "--modules", dir); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestRunNoopRunner(t *testing.T) {
	dir := setupModules(t)
	out, err := execute(t, "run", "update", "--runner", "noop", "--modules", dir)
	if err != nil {
		t.Fatalf("noop run should not fail: %v", err)
	}
	if !strings.Contains(out, "Not running apply") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := execute(t, "run", "update", "--runner", "docker", "--modules", dir); err == nil {
		t.Fatalf("expected unknown runner error")
	}
}

func TestRunFlag(t *testing.T) {
	dir := setupModules(t)
	out, err := execute(t, "--run", "update", "--modules", dir)
	if err != nil {
		t.Fatalf("--run: %v", err)
	}
	if !strings.Contains(out, "Would run apply: apt upgrade") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestInvalidDescriptorFailsUnlessLenient(t *testing.T) {
	dir := setupModules(t)
	writeFile(t, filepath.Join(dir, "broken", "module.toml"), "name = \"No ID\"\n")

	if _, err := execute(t, "list", "--modules", dir); err == nil || !strings.Contains(err.Error(), "id is required") {
		t.Fatalf("expected descriptor error, got %v", err)
	}
	out, err := execute(t, "list", "--lenient", "--modules", dir)
	if err != nil {
		t.Fatalf("lenient list: %v", err)
	}
	if !strings.Contains(out, "Nightly Backup") {
		t.Fatalf("expected valid modules in lenient mode:\n%s", out)
	}
}

func TestDuplicateIDsRejected(t *testing.T) {
	dir := setupModules(t)
	writeFile(t, filepath.Join(dir, "copy", "module.yaml"), "id: backup\nname: Copy\n")
	if _, err := execute(t, "show", "backup", "--modules", dir); err == nil || !strings.Contains(err.Error(), "duplicate module id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	base := isolate(t)
	path := filepath.Join(base, "custom", "config.toml")
	out, err := execute(t, "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Fatalf("unexpected output: %s", out)
	}
	out, err = execute(t, "config", "init", "--config", path)
	if err != nil || !strings.Contains(out, "already exists") {
		t.Fatalf("expected existing file to be kept, got %q %v", out, err)
	}
	out, err = execute(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "runner:") || !strings.Contains(out, "dry-run") || !strings.Contains(out, path) {
		t.Fatalf("unexpected config show output:\n%s", out)
	}
}

func setupModules(t *testing.T) string {
	t.Helper()
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ops", "backup", "module.toml"), `
id = "backup"
name = "Nightly Backup"
category = "Ops"
enabled = true

[actions]
run = "./backup.sh"
verify = "./verify.sh --full"
`)
	writeFile(t, filepath.Join(dir, "system", "update", "module.yaml"), `
id: update
name: Update
category: System
actions:
  apply: apt upgrade
`)
	return dir
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("TOOLBOX_CONFIG", "")
	t.Setenv("TOOLBOX_LOG", "")
	t.Setenv("WPSI_UTILS_MODULE_DIR", "")
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(body)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
