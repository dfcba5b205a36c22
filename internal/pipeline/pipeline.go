// Package pipeline models the repository's CI pipeline definition: a build
// stage, compose services for integration fixtures, and notification hooks.
// It parses, validates, and resolves secret references; running the pipeline
// is the CI orchestrator's job, not ours.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root of a pipeline definition file.
type Config struct {
	Build   BuildStage                `yaml:"build"`
	Compose map[string]ComposeService `yaml:"compose"`
	Notify  NotifyConfig              `yaml:"notify"`
}

// BuildStage runs an ordered list of shell commands inside a container image.
type BuildStage struct {
	Image    string   `yaml:"image"`
	Commands []string `yaml:"commands"`
}

// ComposeService is an auxiliary container started alongside the build,
// typically a database the test commands talk to.
type ComposeService struct {
	Image       string   `yaml:"image"`
	Environment []string `yaml:"environment"` // KEY=VALUE pairs
}

// NotifyConfig declares the channels notified about pipeline outcomes.
// Either channel may be absent.
type NotifyConfig struct {
	Slack *SlackNotify `yaml:"slack"`
	Email *EmailNotify `yaml:"email"`
}

// SlackNotify posts to a chat webhook.
type SlackNotify struct {
	WebhookURL string `yaml:"webhook_url"`
	Channel    string `yaml:"channel"`
	Username   string `yaml:"username"`
}

// EmailNotify sends through an SMTP relay.
type EmailNotify struct {
	From       string   `yaml:"from"`
	Host       string   `yaml:"host"`
	Port       string   `yaml:"port"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	Recipients []string `yaml:"recipients"`
}

// Parse decodes a pipeline definition. Unknown keys are rejected so typos in
// stage or field names fail loudly instead of being silently ignored.
func Parse(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("pipeline: empty definition")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("pipeline: empty definition")
		}
		return nil, fmt.Errorf("pipeline: parse: %w", err)
	}

	return &cfg, nil
}

// ParseFile reads and parses a pipeline definition file.
func ParseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read %s: %w", path, err)
	}
	return Parse(data)
}

// ValidationError collects every field problem found in one pass so the user
// can fix the whole file at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pipeline: invalid config: %s", strings.Join(e.Problems, "; "))
}

// Validate checks structural requirements. It returns a *ValidationError
// listing every problem, or nil when the config is well formed.
func (c *Config) Validate() error {
	var problems []string

	if c.Build.Image == "" {
		problems = append(problems, "build.image is required")
	}
	if len(c.Build.Commands) == 0 {
		problems = append(problems, "build.commands must list at least one command")
	}
	for i, cmd := range c.Build.Commands {
		if strings.TrimSpace(cmd) == "" {
			problems = append(problems, fmt.Sprintf("build.commands[%d] is empty", i))
		}
	}

	names := make([]string, 0, len(c.Compose))
	for name := range c.Compose {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		svc := c.Compose[name]
		if svc.Image == "" {
			problems = append(problems, fmt.Sprintf("compose.%s.image is required", name))
		}
		for i, env := range svc.Environment {
			key, _, ok := strings.Cut(env, "=")
			if !ok || key == "" {
				problems = append(problems, fmt.Sprintf("compose.%s.environment[%d] must be KEY=VALUE", name, i))
			}
		}
	}

	if s := c.Notify.Slack; s != nil {
		if s.WebhookURL == "" {
			problems = append(problems, "notify.slack.webhook_url is required")
		}
	}
	if e := c.Notify.Email; e != nil {
		if e.Host == "" {
			problems = append(problems, "notify.email.host is required")
		}
		if len(e.Recipients) == 0 {
			problems = append(problems, "notify.email.recipients must list at least one address")
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// UnresolvedSecretsError reports secret references with no value available.
type UnresolvedSecretsError struct {
	Names []string
}

func (e *UnresolvedSecretsError) Error() string {
	return fmt.Sprintf("pipeline: unresolved secrets: %s", strings.Join(e.Names, ", "))
}

// Resolve substitutes $$NAME secret references in every string field using
// lookup. $$$$ escapes a literal $$. If any referenced name has no value,
// nothing is modified and an *UnresolvedSecretsError lists every missing name.
func (c *Config) Resolve(lookup func(string) (string, bool)) error {
	missing := map[string]struct{}{}
	c.eachString(func(s *string) {
		substitute(*s, func(name string) (string, bool) {
			v, ok := lookup(name)
			if !ok {
				missing[name] = struct{}{}
			}
			return v, ok
		})
	})
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return &UnresolvedSecretsError{Names: names}
	}

	c.eachString(func(s *string) {
		*s = substitute(*s, lookup)
	})
	return nil
}

// Secrets returns the sorted distinct secret names referenced anywhere in the
// config.
func (c *Config) Secrets() []string {
	seen := map[string]struct{}{}
	c.eachString(func(s *string) {
		substitute(*s, func(name string) (string, bool) {
			seen[name] = struct{}{}
			return "", false
		})
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// eachString visits every substitutable string field in the config.
func (c *Config) eachString(fn func(*string)) {
	for i := range c.Build.Commands {
		fn(&c.Build.Commands[i])
	}
	for name, svc := range c.Compose {
		for i := range svc.Environment {
			fn(&svc.Environment[i])
		}
		c.Compose[name] = svc
	}
	if s := c.Notify.Slack; s != nil {
		fn(&s.WebhookURL)
		fn(&s.Channel)
		fn(&s.Username)
	}
	if e := c.Notify.Email; e != nil {
		fn(&e.From)
		fn(&e.Host)
		fn(&e.Port)
		fn(&e.Username)
		fn(&e.Password)
		for i := range e.Recipients {
			fn(&e.Recipients[i])
		}
	}
}

func isNameByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// substitute expands $$NAME references via repl. $$$$ becomes a literal $$.
// A $$ not followed by a name byte passes through untouched.
func substitute(s string, repl func(string) (string, bool)) string {
	var out strings.Builder
	for i := 0; i < len(s); {
		if !strings.HasPrefix(s[i:], "$$") {
			out.WriteByte(s[i])
			i++
			continue
		}
		if strings.HasPrefix(s[i:], "$$$$") {
			out.WriteString("$$")
			i += 4
			continue
		}

		j := i + 2
		for j < len(s) && isNameByte(s[j]) {
			j++
		}
		if j == i+2 {
			out.WriteString("$$")
			i += 2
			continue
		}

		name := s[i+2 : j]
		if v, ok := repl(name); ok {
			out.WriteString(v)
		} else {
			out.WriteString(s[i:j])
		}
		i = j
	}
	return out.String()
}
