package cmd

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/PolarWolf314/strongroom/internal/configs"
)

const testPassphrase = "correct horse battery staple"

var noteKeyPattern = regexp.MustCompile(`key:\s+\[([^\]]+)\]`)

// setupTestEnvironment points the global settings at a fresh temp directory
// and disables colour so output can be matched literally.
func setupTestEnvironment(t *testing.T) *configs.Settings {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	original := configs.StrongroomSettings
	tempDir := t.TempDir()
	configs.StrongroomSettings = configs.NewSettings(filepath.Join(tempDir, "data"), filepath.Join(tempDir, "config"))

	t.Cleanup(func() {
		configs.StrongroomSettings = original
		ResetGlobalState()
	})

	return configs.StrongroomSettings
}

// runCLI executes the root command with args, feeding stdin, and returns
// everything written to stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	ResetGlobalState()

	var out bytes.Buffer
	RootCmd.SetArgs(args)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)

	err := RootCmd.Execute()
	return out.String(), err
}

// setupMaster creates the master passphrase through the setup command.
func setupMaster(t *testing.T) {
	t.Helper()
	output, err := runCLI(t, testPassphrase+"\n"+testPassphrase+"\n", "setup", "--passphrase-stdin")
	if err != nil {
		t.Fatalf("Setup failed: %v\nOutput: %s", err, output)
	}
}

// extractNoteKey returns the note key printed by notes create or edit.
func extractNoteKey(t *testing.T, output string) string {
	t.Helper()
	m := noteKeyPattern.FindStringSubmatch(output)
	if m == nil {
		t.Fatalf("No note key found in output: %s", output)
	}
	return m[1]
}
