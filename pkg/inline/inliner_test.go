package inline_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tmplmail/pkg/inline"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00}

func assets() fstest.MapFS {
	return fstest.MapFS{
		"welcome/style.css":    &fstest.MapFile{Data: []byte("body {\n  color: red;\n}\n")},
		"welcome/app.js":       &fstest.MapFile{Data: []byte("var answer = 42;\nconsole.log('</script>');\n")},
		"welcome/img/logo.png": &fstest.MapFile{Data: pngBytes},
		"welcome/icon.svg":     &fstest.MapFile{Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg">  <rect width="1" height="1"/>  </svg>`)},
		"shared/footer.css":    &fstest.MapFile{Data: []byte("p { margin: 0; }")},
	}
}

func TestInline_NoCandidatesReturnsInputUnchanged(t *testing.T) {
	t.Parallel()

	src := "<p>Hello   <b>world</b>&nbsp;</p>\n<img src=\"https://cdn.example.com/logo.png\">"
	out, err := inline.New().Inline(context.Background(), src, inline.Options{FS: assets(), RootPath: "welcome"})
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestInline_Stylesheet(t *testing.T) {
	t.Parallel()

	src := `<html><head><link rel="stylesheet" href="style.css" media="screen"></head><body><p>Hi</p></body></html>`

	t.Run("compressed", func(t *testing.T) {
		t.Parallel()
		out, err := inline.New().Inline(context.Background(), src, inline.Options{
			FS: assets(), RootPath: "welcome", Compress: true,
		})
		require.NoError(t, err)
		assert.Contains(t, out, `<style media="screen">body{color:red}</style>`)
		assert.NotContains(t, out, "<link")
		assert.Contains(t, out, "<p>Hi</p>")
	})

	t.Run("uncompressed", func(t *testing.T) {
		t.Parallel()
		out, err := inline.New().Inline(context.Background(), src, inline.Options{
			FS: assets(), RootPath: "welcome",
		})
		require.NoError(t, err)
		assert.Contains(t, out, "body {\n  color: red;\n}")
	})
}

func TestInline_Script(t *testing.T) {
	t.Parallel()

	src := `<html><head><script src="app.js?v=3"></script></head><body></body></html>`
	out, err := inline.New().Inline(context.Background(), src, inline.Options{FS: assets(), RootPath: "welcome"})
	require.NoError(t, err)

	assert.NotContains(t, out, `src=`)
	assert.Contains(t, out, "var answer = 42;")
	assert.Contains(t, out, `console.log('<\/script>');`)
	assert.Equal(t, 1, strings.Count(out, "</script>"))
}

func TestInline_Images(t *testing.T) {
	t.Parallel()

	src := `<html><body><img src="img/logo.png" alt="logo"><img src="/icon.svg"><img src="cid:abc"></body></html>`
	out, err := inline.New().Inline(context.Background(), src, inline.Options{FS: assets(), RootPath: "welcome", Compress: true})
	require.NoError(t, err)

	assert.Contains(t, out, `src="data:image/png;base64,`+base64.StdEncoding.EncodeToString(pngBytes)+`"`)
	assert.Contains(t, out, `alt="logo"`)
	assert.Contains(t, out, `src="data:image/svg+xml;base64,`)
	assert.Contains(t, out, `src="cid:abc"`)
}

func TestInline_SiblingDirectoryInsideFS(t *testing.T) {
	t.Parallel()

	src := `<html><head><link rel="stylesheet" href="../shared/footer.css"></head><body></body></html>`
	out, err := inline.New().Inline(context.Background(), src, inline.Options{FS: assets(), RootPath: "welcome"})
	require.NoError(t, err)
	assert.Contains(t, out, "<style>p { margin: 0; }</style>")
}

func TestInline_AttributeMode(t *testing.T) {
	t.Parallel()

	src := `<html><head>` +
		`<link rel="stylesheet" href="style.css" inline>` +
		`<link rel="stylesheet" href="../shared/footer.css">` +
		`</head><body><img src="img/logo.png"></body></html>`

	out, err := inline.New().Inline(context.Background(), src, inline.Options{
		FS: assets(), RootPath: "welcome", Attribute: true,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "color: red")
	assert.NotContains(t, out, "inline")
	assert.Contains(t, out, `href="../shared/footer.css"`)
	assert.Contains(t, out, `src="img/logo.png"`)
}

func TestInline_CustomAttributeName(t *testing.T) {
	t.Parallel()

	src := `<html><body><img src="img/logo.png" data-embed></body></html>`
	out, err := inline.New(inline.WithAttributeName("data-embed")).Inline(context.Background(), src, inline.Options{
		FS: assets(), RootPath: "welcome", Attribute: true,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "data:image/png;base64,")
	assert.NotContains(t, out, "data-embed")
}

func TestInline_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		opts inline.Options
		want error
	}{
		{
			name: "missing filesystem",
			src:  `<img src="a.png">`,
			opts: inline.Options{},
			want: inline.ErrNoFilesystem,
		},
		{
			name: "missing asset",
			src:  `<link rel="stylesheet" href="missing.css">`,
			opts: inline.Options{FS: assets(), RootPath: "welcome"},
			want: inline.ErrAssetNotFound,
		},
		{
			name: "escaping the filesystem",
			src:  `<img src="../../etc/passwd">`,
			opts: inline.Options{FS: assets(), RootPath: "welcome"},
			want: inline.ErrInvalidPath,
		},
		{
			name: "bad escape sequence",
			src:  `<img src="logo%zz.png">`,
			opts: inline.Options{FS: assets(), RootPath: "welcome"},
			want: inline.ErrInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := inline.New().Inline(context.Background(), tt.src, tt.opts)
			require.ErrorIs(t, err, tt.want)
			require.Empty(t, out)
		})
	}
}

func TestInline_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := inline.New(inline.WithConcurrency(1)).Inline(ctx, `<img src="img/logo.png">`, inline.Options{
		FS: assets(), RootPath: "welcome",
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestInline_Deterministic(t *testing.T) {
	t.Parallel()

	src := `<html><head><link rel="stylesheet" href="style.css"><script src="app.js"></script></head><body><img src="img/logo.png"></body></html>`
	in := inline.New()
	opts := inline.Options{FS: assets(), RootPath: "welcome", Compress: true}

	first, err := in.Inline(context.Background(), src, opts)
	require.NoError(t, err)
	second, err := in.Inline(context.Background(), src, opts)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
