package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePipeline(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".drone.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	valid := `
build:
  image: golang:1.23
  commands:
    - go test ./...
notify:
  slack:
    webhook_url: $$SLACK_WEBHOOK
`

	t.Run("valid config", func(t *testing.T) {
		path := writePipeline(t, valid)
		assert.Equal(t, 0, run(path, false))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Equal(t, 1, run(filepath.Join(t.TempDir(), "nope.yml"), false))
	})

	t.Run("invalid config", func(t *testing.T) {
		path := writePipeline(t, "build:\n  image: golang:1.23\n")
		assert.Equal(t, 1, run(path, false))
	})

	t.Run("strict with missing secret", func(t *testing.T) {
		os.Unsetenv("SLACK_WEBHOOK")
		path := writePipeline(t, valid)
		assert.Equal(t, 1, run(path, true))
	})

	t.Run("strict with secret present", func(t *testing.T) {
		t.Setenv("SLACK_WEBHOOK", "https://hooks.example.org/T00/B00")
		path := writePipeline(t, valid)
		assert.Equal(t, 0, run(path, true))
	})
}
