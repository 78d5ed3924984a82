package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/happydeel/mailroom/pkg/sanitizer"
)

func TestEmailFragment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:        "removes script",
			input:       `<p>Hello</p><script>alert('xss')</script>`,
			contains:    []string{"<p>Hello</p>"},
			notContains: []string{"<script", "alert"},
		},
		{
			name:        "removes event handlers",
			input:       `<p onclick="steal()">Order</p>`,
			contains:    []string{"<p>Order</p>"},
			notContains: []string{"onclick"},
		},
		{
			name:        "removes javascript links",
			input:       `<a href="javascript:alert(1)">track</a>`,
			contains:    []string{"track"},
			notContains: []string{"javascript:"},
		},
		{
			name:     "keeps https links",
			input:    `<a href="https://www.fedex.com/fedextrack/?trknbr=HD123456789US">track</a>`,
			contains: []string{`href="https://www.fedex.com/fedextrack/?trknbr=HD123456789US"`},
		},
		{
			name:     "keeps mailto and tel links",
			input:    `<a href="mailto:support@happydeel.com">mail</a> <a href="tel:+17176484487">call</a>`,
			contains: []string{`href="mailto:support@happydeel.com"`, `href="tel:+17176484487"`},
		},
		{
			name:     "keeps button class",
			input:    `<a href="https://example.com" class="btn">Go</a>`,
			contains: []string{`class="btn"`},
		},
		{
			name:        "drops other classes",
			input:       `<a href="https://example.com" class="evil">Go</a>`,
			notContains: []string{"evil"},
		},
		{
			name:        "drops images and iframes",
			input:       `<img src="https://x/pixel.gif"><iframe src="https://x"></iframe><p>ok</p>`,
			contains:    []string{"<p>ok</p>"},
			notContains: []string{"<img", "<iframe"},
		},
		{
			name:     "keeps formatting",
			input:    `<h2>Details</h2><ul><li><strong>Product:</strong> Watch</li></ul>`,
			contains: []string{"<h2>Details</h2>", "<li><strong>Product:</strong> Watch</li>"},
		},
		{
			name:     "keeps escaped text escaped",
			input:    `<p>&lt;b&gt;Tom &amp; Jerry&lt;/b&gt;</p>`,
			contains: []string{"&lt;b&gt;Tom &amp; Jerry&lt;/b&gt;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizer.EmailFragment(tt.input)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, got, s)
			}
		})
	}
}
