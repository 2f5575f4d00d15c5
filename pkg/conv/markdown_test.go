package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "plain reply",
			input:    "Stock restored.",
			expected: "Stock restored.\n",
		},
		{
			name:     "order heading",
			input:    "**Order ORD-1001**",
			expected: "<strong>Order ORD-1001</strong>\n",
		},
		{
			name:     "inline code",
			input:    "`ORD-1002`",
			expected: "<code>ORD-1002</code>\n",
		},
		{
			name:     "code block",
			input:    "```\nquantity: 1\n```",
			expected: "<pre><code>quantity: 1\n</code></pre>\n",
		},
		{
			name:     "header tags stripped",
			input:    "# Help",
			expected: "Help\n",
		},
		{
			name:     "script tags sanitized",
			input:    "<script>alert('xss')</script>",
			expected: "\n",
		},
		{
			name:     "link keeps href",
			input:    "[docs](https://example.com)",
			expected: "<a href=\"https://example.com\">docs</a>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToTelegramHTML([]byte(tt.input))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMarkdownToPlainText(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got, err := MarkdownToPlainText("  \n")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("order block keeps values", func(t *testing.T) {
		md := "**Order ORD-1001**\n  - Customer: John Doe\n  - Price: $1299.99\n"
		got, err := MarkdownToPlainText(md)
		require.NoError(t, err)
		assert.Contains(t, got, "Order ORD-1001")
		assert.Contains(t, got, "Customer: John Doe")
		assert.Contains(t, got, "$1299.99")
		assert.NotContains(t, got, "<strong>")
	})
}
