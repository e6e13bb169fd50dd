package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPrefixes(t *testing.T) {
	tests := []struct {
		src      string
		prefixes []string
		want     bool
	}{
		{"/api/v1/format", []string{"/api", "/chat"}, true},
		{"/chat", []string{"/api", "/chat"}, true},
		{"/index.html", []string{"/api", "/chat"}, false},
		{"/api", nil, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HasPrefixes(tt.src, tt.prefixes...), tt.src)
	}
}
