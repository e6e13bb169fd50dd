package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFormat(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runFormat(strings.NewReader("# Roma\n1. Coliseo"), &out, false))
	assert.Equal(t,
		`<h2 class="chat-h2">Roma</h2><br><ol class="chat-list"><br>`+
			`<li class="chat-li-numbered"><span class="chat-li-number">1.</span> Coliseo</li><br></ol>`+"\n",
		out.String())
}

func TestRunFormat_LegacyListClose(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runFormat(strings.NewReader("1. Coliseo"), &out, true))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out.String()), "</ul>"))
}

func TestNewProfile_FromEnv(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("WANDERCHAT_LLM_PROVIDER", "")
	t.Setenv("WANDERCHAT_LLM_API_KEY", "")

	p := newProfile()
	assert.Equal(t, "groq", p.LLMProvider)
	assert.Equal(t, "gsk-test", p.LLMAPIKey)
	assert.True(t, p.AIEnabled)
}
