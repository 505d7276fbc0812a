package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"linernotes/internal/config"
	"linernotes/internal/logging"
	"linernotes/pkg/models"
)

const testCatalog = `[
  {"title": "A", "artist": "X", "year": 2020, "genre": "Rock", "score": 9.5},
  {"title": "B", "artist": "Y", "year": 2019, "genre": "Jazz", "score": 6}
]`

func createTestApplication(t *testing.T, catalogJSON string) *Application {
	t.Helper()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "albums.json")
	if err := os.WriteFile(catalogPath, []byte(catalogJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.Catalog.Location = catalogPath

	return &Application{
		ConfigPath: filepath.Join(dir, "config.toml"),
		Config:     cfg,
		Logger:     logging.Discard(),
	}
}

func runList(t *testing.T, app *Application, args ...string) (string, error) {
	t.Helper()

	cmd := app.createListCommand(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestCmdList(t *testing.T) {
	app := createTestApplication(t, testCatalog)

	output, err := runList(t, app)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	for _, want := range []string{"Showing all 2 albums", "9.5/10", "A", "X", "2019", "Jazz"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Index(output, "9.5/10") > strings.Index(output, "6/10") {
		t.Error("albums should be in score order")
	}
}

func TestCmdListFilters(t *testing.T) {
	app := createTestApplication(t, testCatalog)

	output, err := runList(t, app, "--genre", "Jazz")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "Showing 1 of 2 albums") {
		t.Errorf("unexpected output:\n%s", output)
	}

	output, err = runList(t, app, "-q", "zzz")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "Showing 0 of 2 albums") || !strings.Contains(output, "No albums match your search.") {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestCmdListJSON(t *testing.T) {
	app := createTestApplication(t, testCatalog)

	output, err := runList(t, app, "--sort", "year", "-o", "json")
	if err != nil {
		t.Fatal(err)
	}

	var albums []models.Album
	if err := json.Unmarshal([]byte(output), &albums); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, output)
	}
	if len(albums) != 2 || albums[0].Year != 2020 {
		t.Errorf("unexpected albums %+v", albums)
	}
}

func TestCmdListYAML(t *testing.T) {
	app := createTestApplication(t, testCatalog)

	output, err := runList(t, app, "-o", "yaml", "-q", "a")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "title: A") || strings.Contains(output, "title: B") {
		t.Errorf("unexpected YAML:\n%s", output)
	}
}

func TestCmdListLoadError(t *testing.T) {
	app := createTestApplication(t, `{"not": "an array"}`)

	output, err := runList(t, app)
	if err == nil {
		t.Fatal("expected an error for a malformed catalog")
	}
	if !strings.Contains(output, "Error loading albums.") {
		t.Errorf("expected load error message, got:\n%s", output)
	}
}

func TestCmdListUnknownOutput(t *testing.T) {
	app := createTestApplication(t, testCatalog)

	if _, err := runList(t, app, "-o", "xml"); err == nil {
		t.Error("expected an error for an unknown output format")
	}
}

func TestRootCommandLoadsConfig(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "albums.json")
	if err := os.WriteFile(catalogPath, []byte(testCatalog), 0644); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(dir, "config.toml")
	cfg := config.DefaultConfig()
	cfg.Catalog.Location = catalogPath
	cfg.Logging.Level = "error"
	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatal(err)
	}

	app := &Application{}
	defer app.Close()

	root := app.createRootCommand(context.Background())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", configPath, "list", "-o", "json"})

	if err := root.Execute(); err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	if app.Config == nil || app.Config.Catalog.Location != catalogPath {
		t.Error("configuration was not loaded from --config")
	}
	if !strings.Contains(out.String(), `"title": "A"`) {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

// captureStdout runs fn with os.Stdout redirected and returns what was written
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	fn()
	w.Close()
	return <-done
}

func TestListJSONWithMissingConfigKeepsStdoutClean(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "albums.json")
	if err := os.WriteFile(catalogPath, []byte(testCatalog), 0644); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(dir, "config.toml")

	app := &Application{}
	defer app.Close()

	var runErr error
	output := captureStdout(t, func() {
		root := app.createRootCommand(context.Background())
		root.SetArgs([]string{"--config", configPath, "list", "--catalog", catalogPath, "-o", "json"})
		runErr = root.Execute()
	})
	if runErr != nil {
		t.Fatalf("list failed: %v", runErr)
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("default config was not written: %v", err)
	}

	var albums []models.Album
	if err := json.Unmarshal([]byte(output), &albums); err != nil {
		t.Fatalf("stdout is not valid JSON: %v\n%s", err, output)
	}
	if len(albums) != 2 {
		t.Errorf("got %d albums, want 2", len(albums))
	}
}

func TestRootCommandLeavesErrorPrintingToMain(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	cfg := config.DefaultConfig()
	cfg.Catalog.Location = filepath.Join(dir, "missing.json")
	cfg.Logging.Level = "error"
	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatal(err)
	}

	app := &Application{}
	defer app.Close()

	root := app.createRootCommand(context.Background())
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"--config", configPath, "list"})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected a load error")
	}
	if !strings.Contains(stdout.String(), "Error loading albums.") {
		t.Errorf("stdout = %q, want the load error message", stdout.String())
	}
	if strings.Contains(stderr.String(), err.Error()) {
		t.Errorf("cobra printed the error itself:\n%s", stderr.String())
	}
}
