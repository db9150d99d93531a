package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexTemplateEscapes(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "index.html", map[string]any{
		"Nickname": "<b>me</b>",
		"Links": []map[string]string{
			{"Name": "GitHub", "URL": "https://github.com/me", "Icon": "fa-brands fa-github"},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "&lt;b&gt;me&lt;/b&gt;")
	require.Contains(t, out, `href="https://github.com/me"`)
	require.Contains(t, out, `class="fa-brands fa-github"`)
}
