package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"encore/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
	logDir     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	outputDir := filepath.Join(base, "tracks")
	logDir := filepath.Join(base, "logs")
	configPath := filepath.Join(homeDir, ".config", "encore", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, outputDir, logDir)

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		outputDir:  outputDir,
		logDir:     logDir,
	}
}

// writeTestConfig uses shortened silence windows so tests can work with
// seconds of audio instead of minutes.
func writeTestConfig(t *testing.T, path, outputDir, logDir string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q

[segmentation]
min_silence_len_ms = 2000
keep_silence_ms = 500
merge_adjacent_gap_ms = 1000
target_song_min_ms = 1000
target_song_max_ms = 60000
min_fragment_ms = 1000

[export]
head_ms = 100
tail_ms = 100
fade_ms = 10
workers = 2

[logging]
format = "json"
`, outputDir, logDir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeTestRecording produces two loud passages divided by a silent gap
// long enough to register as a separator under the test config.
func writeTestRecording(t *testing.T, path string) {
	t.Helper()
	const sampleRate = 8000
	var data []float64
	data = testsupport.AppendTone(data, 0.5, 6000, sampleRate)
	data = testsupport.AppendTone(data, 0, 3000, sampleRate)
	data = testsupport.AppendTone(data, 0.5, 6000, sampleRate)
	data = testsupport.AppendTone(data, 0, 2500, sampleRate)
	testsupport.WriteRecording(t, path, data, sampleRate)
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
