// Package promptlib renders the prompts handed to each LLM stage. Templates
// are embedded at build time, named `<stage>_<provider>.prompt`, and fall
// back to a `default` provider variant when no provider-specific template
// exists.
package promptlib

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

type Provider string
type StageKey string

const (
	DefaultProvider Provider = "default"

	ReviewerStage StageKey = "reviewer"
	EditorStage   StageKey = "editor"
	CoverageStage StageKey = "coverage"
	VerifierStage StageKey = "verifier"
)

// Manager holds one parsed template per (stage, provider) pair.
type Manager struct {
	templates map[StageKey]map[Provider]*template.Template
}

// New parses every embedded prompts/*.prompt file into the manager.
func New() (*Manager, error) {
	m := &Manager{templates: make(map[StageKey]map[Provider]*template.Template)}

	files, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("promptlib: read embedded prompts dir: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		base := strings.TrimSuffix(name, filepath.Ext(name))
		idx := strings.LastIndex(base, "_")
		if idx <= 0 || idx == len(base)-1 {
			return nil, fmt.Errorf("promptlib: invalid prompt filename %q, want 'stage_provider.prompt'", name)
		}
		stage := StageKey(base[:idx])
		provider := Provider(base[idx+1:])

		content, err := promptFiles.ReadFile("prompts/" + name)
		if err != nil {
			return nil, fmt.Errorf("promptlib: read %s: %w", name, err)
		}
		if err := m.register(stage, provider, string(content)); err != nil {
			return nil, fmt.Errorf("promptlib: register %s: %w", name, err)
		}
	}
	return m, nil
}

func (m *Manager) register(stage StageKey, provider Provider, content string) error {
	tmpl, err := template.New(string(stage) + "_" + string(provider)).Parse(content)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	if m.templates[stage] == nil {
		m.templates[stage] = make(map[Provider]*template.Template)
	}
	m.templates[stage][provider] = tmpl
	return nil
}

func (m *Manager) get(stage StageKey, provider Provider) (*template.Template, error) {
	byProvider, ok := m.templates[stage]
	if !ok {
		return nil, fmt.Errorf("promptlib: no templates registered for stage %q", stage)
	}
	if tmpl, ok := byProvider[provider]; ok {
		return tmpl, nil
	}
	if tmpl, ok := byProvider[DefaultProvider]; ok {
		return tmpl, nil
	}
	return nil, fmt.Errorf("promptlib: no template for stage %q, provider %q, and no default", stage, provider)
}

// Render executes the (stage, provider) template against data, falling
// back to the stage's `default` provider variant.
func (m *Manager) Render(stage StageKey, provider Provider, data any) (string, error) {
	tmpl, err := m.get(stage, provider)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("promptlib: render %s/%s: %w", stage, provider, err)
	}
	return buf.String(), nil
}
