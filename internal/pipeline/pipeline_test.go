package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
build:
  image: golang:1.23
  commands:
    - go vet ./...
    - go test ./...
compose:
  database:
    image: postgres:16
    environment:
      - POSTGRES_USER=postgres
      - POSTGRES_PASSWORD=$$DB_PASSWORD
notify:
  slack:
    webhook_url: $$SLACK_WEBHOOK
    channel: ci
    username: drone
  email:
    from: ci@example.org
    host: smtp.example.org
    port: "587"
    username: ci
    password: $$SMTP_PASSWORD
    recipients:
      - dev@example.org
`

func TestParse(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		cfg, err := Parse([]byte(sampleYAML))
		require.NoError(t, err)

		assert.Equal(t, "golang:1.23", cfg.Build.Image)
		assert.Equal(t, []string{"go vet ./...", "go test ./..."}, cfg.Build.Commands)

		db, ok := cfg.Compose["database"]
		require.True(t, ok)
		assert.Equal(t, "postgres:16", db.Image)
		assert.Equal(t, []string{"POSTGRES_USER=postgres", "POSTGRES_PASSWORD=$$DB_PASSWORD"}, db.Environment)

		require.NotNil(t, cfg.Notify.Slack)
		assert.Equal(t, "$$SLACK_WEBHOOK", cfg.Notify.Slack.WebhookURL)
		require.NotNil(t, cfg.Notify.Email)
		assert.Equal(t, []string{"dev@example.org"}, cfg.Notify.Email.Recipients)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Parse([]byte("  \n\t"))
		assert.Error(t, err)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		_, err := Parse([]byte("build:\n  imgae: golang:1.23\n"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("build: [unclosed"))
		assert.Error(t, err)
	})
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "golang:1.23", cfg.Build.Image)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Parse([]byte(sampleYAML))
		require.NoError(t, err)
		return cfg
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("notify without channels is valid", func(t *testing.T) {
		cfg := valid()
		cfg.Notify = NotifyConfig{}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("problems are collected", func(t *testing.T) {
		cfg := valid()
		cfg.Build.Image = ""
		cfg.Build.Commands = nil
		cfg.Notify.Slack.WebhookURL = ""

		err := cfg.Validate()
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Problems, 3)
		assert.Contains(t, verr.Problems, "build.image is required")
		assert.Contains(t, verr.Problems, "notify.slack.webhook_url is required")
	})

	t.Run("compose service without image", func(t *testing.T) {
		cfg := valid()
		cfg.Compose["cache"] = ComposeService{}

		var verr *ValidationError
		require.ErrorAs(t, cfg.Validate(), &verr)
		assert.Contains(t, verr.Problems, "compose.cache.image is required")
	})

	t.Run("environment entry without separator", func(t *testing.T) {
		cfg := valid()
		svc := cfg.Compose["database"]
		svc.Environment = append(svc.Environment, "NOEQUALS")
		cfg.Compose["database"] = svc

		var verr *ValidationError
		require.ErrorAs(t, cfg.Validate(), &verr)
		assert.Contains(t, verr.Problems, "compose.database.environment[2] must be KEY=VALUE")
	})

	t.Run("environment entry with empty key", func(t *testing.T) {
		cfg := valid()
		svc := cfg.Compose["database"]
		svc.Environment = append(svc.Environment, "=VALUE")
		cfg.Compose["database"] = svc

		var verr *ValidationError
		require.ErrorAs(t, cfg.Validate(), &verr)
		assert.Contains(t, verr.Problems, "compose.database.environment[2] must be KEY=VALUE")
	})

	t.Run("email without recipients", func(t *testing.T) {
		cfg := valid()
		cfg.Notify.Email.Recipients = nil

		var verr *ValidationError
		require.ErrorAs(t, cfg.Validate(), &verr)
		assert.Contains(t, verr.Problems, "notify.email.recipients must list at least one address")
	})
}

func TestSecrets(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"DB_PASSWORD", "SLACK_WEBHOOK", "SMTP_PASSWORD"}, cfg.Secrets())

	t.Run("duplicates collapse", func(t *testing.T) {
		cfg.Build.Commands = append(cfg.Build.Commands, "echo $$DB_PASSWORD")
		assert.Equal(t, []string{"DB_PASSWORD", "SLACK_WEBHOOK", "SMTP_PASSWORD"}, cfg.Secrets())
	})

	t.Run("escaped reference is not a secret", func(t *testing.T) {
		cfg := &Config{Build: BuildStage{Commands: []string{"echo $$$$NOTASECRET"}}}
		assert.Empty(t, cfg.Secrets())
	})
}

func TestResolve(t *testing.T) {
	secrets := map[string]string{
		"DB_PASSWORD":   "s3cret",
		"SLACK_WEBHOOK": "https://hooks.example.org/T00/B00",
		"SMTP_PASSWORD": "relay-pass",
	}
	lookup := func(name string) (string, bool) {
		v, ok := secrets[name]
		return v, ok
	}

	t.Run("substitutes every field", func(t *testing.T) {
		cfg, err := Parse([]byte(sampleYAML))
		require.NoError(t, err)
		require.NoError(t, cfg.Resolve(lookup))

		assert.Equal(t, "POSTGRES_PASSWORD=s3cret", cfg.Compose["database"].Environment[1])
		assert.Equal(t, "https://hooks.example.org/T00/B00", cfg.Notify.Slack.WebhookURL)
		assert.Equal(t, "relay-pass", cfg.Notify.Email.Password)
	})

	t.Run("missing secrets leave config untouched", func(t *testing.T) {
		cfg, err := Parse([]byte(sampleYAML))
		require.NoError(t, err)

		err = cfg.Resolve(func(string) (string, bool) { return "", false })
		require.Error(t, err)

		var uerr *UnresolvedSecretsError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, []string{"DB_PASSWORD", "SLACK_WEBHOOK", "SMTP_PASSWORD"}, uerr.Names)
		assert.Equal(t, "$$SLACK_WEBHOOK", cfg.Notify.Slack.WebhookURL)
	})

	t.Run("escape sequence", func(t *testing.T) {
		cfg := &Config{Build: BuildStage{Commands: []string{"echo $$$$PATH and $$DB_PASSWORD"}}}
		require.NoError(t, cfg.Resolve(lookup))
		assert.Equal(t, "echo $$PATH and s3cret", cfg.Build.Commands[0])
	})

	t.Run("bare dollars pass through", func(t *testing.T) {
		cfg := &Config{Build: BuildStage{Commands: []string{"awk '$$ {print}' file"}}}
		require.NoError(t, cfg.Resolve(lookup))
		assert.Equal(t, "awk '$$ {print}' file", cfg.Build.Commands[0])
	})
}

func TestSubstituteIsPure(t *testing.T) {
	in := "prefix $$NAME suffix"
	out := substitute(in, func(name string) (string, bool) {
		if name == "NAME" {
			return "value", true
		}
		return "", false
	})
	assert.Equal(t, "prefix value suffix", out)
	assert.Equal(t, "prefix $$NAME suffix", in)

	errOut := substitute(in, func(string) (string, bool) { return "", false })
	assert.Equal(t, in, errOut)
}
