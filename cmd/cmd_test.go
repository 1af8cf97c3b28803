package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mpyconv/mpyconv/translate"
)

const blinkSketch = "void setup(){ pinMode(2, OUTPUT); } void loop(){ delay(500); }"

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newTranslator(t *testing.T) *translate.Translator {
	t.Helper()
	tr, err := translate.New(zap.NewNop(), translate.DefaultConfig())
	require.NoError(t, err)
	return tr
}

func writeSketch(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunTranslate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeSketch(t, dir, "blink.ino", blinkSketch)
	output := filepath.Join(dir, "main.py")

	var stdout, stderr bytes.Buffer
	err := runTranslate(context.Background(), zap.NewNop(), newTranslator(t), []string{path},
		translateFlags{output: output}, &stdout, &stderr)
	require.NoError(t, err)

	expected := "{# machine.Pin(2, OUTPUT); #} while True:{# time.sleep_ms(500); #}"
	assert.Equal(t, expected, stdout.String())
	assert.Empty(t, stderr.String())

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, expected, string(content))
}

func TestRunTranslateFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeSketch(t, dir, "good.ino", "void loop(){ delay(1); }")
	bad := writeSketch(t, dir, "bad.ino", "void loop() {\n  delay(500;\n}\n")
	outDir := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	err := runTranslate(context.Background(), zap.NewNop(), newTranslator(t), []string{good, bad},
		translateFlags{outDir: outDir, noStdout: true}, &stdout, &stderr)
	assert.ErrorIs(t, err, ErrFailed)

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "error: parse")
	assert.Contains(t, stderr.String(), bad)
	assert.FileExists(t, filepath.Join(outDir, "good.py"))
	assert.NoFileExists(t, filepath.Join(outDir, "bad.py"))
}

func TestRunTranslateDryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeSketch(t, dir, "blink.ino", "void loop(){ delay(1); }\n")
	other := writeSketch(t, dir, "other.ino", "void loop(){}\n")
	body := "-void loop(){ delay(1); }\n" +
		"+while True:{# time.sleep_ms(1); #}\n"

	tests := []struct {
		name   string
		paths  []string
		flags  translateFlags
		target string
	}{
		{"single input uses configured output", []string{path}, translateFlags{}, translate.DefaultOutputFile},
		{"single input with -o", []string{path}, translateFlags{output: "main.py"}, "main.py"},
		{"single input with out dir", []string{path}, translateFlags{outDir: "build"}, filepath.Join("build", "blink.py")},
		{"several inputs", []string{path, other}, translateFlags{}, filepath.Join(dir, "blink.py")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags := tt.flags
			flags.dryRun = true
			var stdout, stderr bytes.Buffer
			err := runTranslate(context.Background(), zap.NewNop(), newTranslator(t), tt.paths,
				flags, &stdout, &stderr)
			require.NoError(t, err)

			expected := "--- " + path + "\n" + "+++ " + tt.target + "\n" + body
			assert.True(t, strings.HasPrefix(stdout.String(), expected), stdout.String())
			assert.NoFileExists(t, filepath.Join(dir, "blink.py"))
			assert.NoFileExists(t, tt.target)
		})
	}
}

func TestOptionsFor(t *testing.T) {
	t.Parallel()

	config := translate.Config{Output: "cfg.txt", OutDir: "cfg-out", Workers: 2}

	opts := optionsFor(config, translateFlags{})
	assert.Equal(t, "cfg.txt", opts.Output)
	assert.Equal(t, "cfg-out", opts.OutDir)
	assert.Equal(t, 2, opts.Workers)

	opts = optionsFor(config, translateFlags{output: "a.py", outDir: "b", workers: 4, dryRun: true})
	assert.Equal(t, "a.py", opts.Output)
	assert.Equal(t, "b", opts.OutDir)
	assert.Equal(t, 4, opts.Workers)
	assert.True(t, opts.DryRun)
}

func TestReportWatch(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	reportWatch(&stdout, &stderr, []translate.Result{
		{Path: "a.ino", OutputPath: "a.py"},
		{Path: "b.ino", Err: errors.New("boom")},
	})
	assert.Equal(t, "translated a.ino -> a.py (0 edits)\n", stdout.String())
	assert.Equal(t, "error: error\n --> b.ino\n  = boom\n\n", stderr.String())
}

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yaml")
	got, err := initConfigurationFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	config, err := translate.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, translate.DefaultConfig(), config)
}
