package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis",
			source:   "**42** is the answer",
			contains: []string{"<strong>42</strong>"},
		},
		{
			name:     "script stripped",
			source:   "hi <script>alert(1)</script>",
			excludes: []string{"<script"},
		},
		{
			name:     "external link hardened",
			source:   "[docs](https://example.com)",
			contains: []string{`href="https://example.com"`, `target="_blank"`, "noreferrer"},
		},
		{
			name:     "gfm table",
			source:   "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "javascript url removed",
			source:   "[x](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := Markdown(tt.source)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, out, bad)
			}
		})
	}
}
