package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `yaml:"name"`
	Params struct {
		MaxTokens int `yaml:"max_tokens"`
	} `yaml:"params"`
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prompts/chat.yaml", "name: chat\nparams:\n  max_tokens: 42\n")

	var got sample
	require.NoError(t, LoadYAML(dir, "prompts/chat.yaml", &got))
	assert.Equal(t, "chat", got.Name)
	assert.Equal(t, 42, got.Params.MaxTokens)
}

func TestLoadYAML_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "name: [unclosed")
	writeFile(t, dir, "typo.yaml", "name: chat\nparams:\n  max_token: 42\n")

	tests := []struct {
		name string
		file string
	}{
		{"missing file", "missing.yaml"},
		{"invalid yaml", "bad.yaml"},
		{"unknown key", "typo.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sample
			assert.Error(t, LoadYAML(dir, tt.file, &got))
		})
	}
}
