package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("password1")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", hash)
	assert.True(t, CheckPasswordHash("password1", hash))
	assert.False(t, CheckPasswordHash("password2", hash))
	assert.False(t, CheckPasswordHash("password1", "not-a-hash"))

	BurnPasswordCheck("anything")
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("**bold** and `code`")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<code>code</code>")
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	out := RenderMarkdown("hi <script>alert(1)</script> [x](javascript:alert(1))")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
}

func TestRenderMarkdownImages(t *testing.T) {
	out := RenderMarkdown("![cat](https://example.com/cat.png)")
	assert.True(t, strings.Contains(out, `loading="lazy"`), out)
	assert.Contains(t, out, `referrerpolicy="no-referrer"`)
	assert.NotContains(t, out, "<body>")
}
