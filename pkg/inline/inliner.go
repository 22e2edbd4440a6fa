package inline

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"
)

const (
	mimeCSS = "text/css"
	mimeJS  = "application/javascript"
	mimeSVG = "image/svg+xml"
)

// Inliner rewrites local asset references into embedded content.
// It holds no per-call state and is safe for concurrent use.
type Inliner struct {
	minifier    *minify.M
	attribute   string
	concurrency int
}

// New creates an Inliner.
func New(opts ...Option) *Inliner {
	m := minify.New()
	m.AddFunc(mimeCSS, css.Minify)
	m.AddFunc(mimeJS, js.Minify)
	m.AddFunc(mimeSVG, svg.Minify)

	in := &Inliner{
		minifier:    m,
		attribute:   DefaultAttribute,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

type assetKind int

const (
	kindScript assetKind = iota
	kindStylesheet
	kindImage
)

type asset struct {
	node    *html.Node
	ref     string
	path    string
	content []byte
	kind    assetKind
}

// Inline embeds every eligible local asset referenced by src.
func (in *Inliner) Inline(ctx context.Context, src string, opts Options) (string, error) {
	if opts.FS == nil {
		return "", ErrNoFilesystem
	}

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	assets, err := in.collect(doc, opts)
	if err != nil {
		return "", err
	}
	if len(assets) == 0 {
		return src, nil
	}

	if err := in.load(ctx, opts.FS, assets); err != nil {
		return "", err
	}

	for _, a := range assets {
		if err := in.apply(a, opts.Compress); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	return buf.String(), nil
}

func (in *Inliner) collect(doc *html.Node, opts Options) ([]*asset, error) {
	var (
		assets []*asset
		walk   func(n *html.Node) error
	)
	walk = func(n *html.Node) error {
		if n.Type == html.ElementNode {
			a, ok := in.candidate(n, opts.Attribute)
			if ok {
				p, err := resolve(opts.RootPath, a.ref)
				if err != nil {
					return err
				}
				a.path = p
				assets = append(assets, a)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(doc); err != nil {
		return nil, err
	}
	return assets, nil
}

func (in *Inliner) candidate(n *html.Node, attributeMode bool) (*asset, bool) {
	var (
		kind assetKind
		ref  string
		ok   bool
	)
	switch n.DataAtom {
	case atom.Script:
		kind = kindScript
		ref, ok = attr(n, "src")
	case atom.Link:
		rel, _ := attr(n, "rel")
		if !hasToken(rel, "stylesheet") {
			return nil, false
		}
		kind = kindStylesheet
		ref, ok = attr(n, "href")
	case atom.Img:
		kind = kindImage
		ref, ok = attr(n, "src")
	default:
		return nil, false
	}

	ref = strings.TrimSpace(ref)
	if !ok || ref == "" || isRemote(ref) {
		return nil, false
	}
	if attributeMode {
		if _, marked := attr(n, in.attribute); !marked {
			return nil, false
		}
	}
	return &asset{node: n, kind: kind, ref: ref}, true
}

func (in *Inliner) load(ctx context.Context, fsys fs.FS, assets []*asset) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.concurrency)

	for _, a := range assets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, a.path)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrAssetNotFound, a.ref, err)
			}
			a.content = data
			return nil
		})
	}
	return g.Wait()
}

func (in *Inliner) apply(a *asset, compress bool) error {
	n := a.node
	switch a.kind {
	case kindScript:
		body, err := in.compress(mimeJS, string(a.content), compress)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCompress, a.ref, err)
		}
		removeAttr(n, "src")
		removeAttr(n, in.attribute)
		for c := n.FirstChild; c != nil; c = n.FirstChild {
			n.RemoveChild(c)
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: escapeScript(body)})

	case kindStylesheet:
		body, err := in.compress(mimeCSS, string(a.content), compress)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCompress, a.ref, err)
		}
		style := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
		if media, ok := attr(n, "media"); ok {
			style.Attr = append(style.Attr, html.Attribute{Key: "media", Val: media})
		}
		style.AppendChild(&html.Node{Type: html.TextNode, Data: body})
		if parent := n.Parent; parent != nil {
			parent.InsertBefore(style, n)
			parent.RemoveChild(n)
		}

	case kindImage:
		mediaType := mediaTypeOf(a.path, a.content)
		content := a.content
		if mediaType == mimeSVG && compress {
			minified, err := in.minifier.Bytes(mimeSVG, content)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrCompress, a.ref, err)
			}
			content = minified
		}
		setAttr(n, "src", "data:"+mediaType+";base64,"+base64.StdEncoding.EncodeToString(content))
		removeAttr(n, in.attribute)
	}
	return nil
}

func (in *Inliner) compress(mediaType, s string, enabled bool) (string, error) {
	if !enabled {
		return s, nil
	}
	return in.minifier.String(mediaType, s)
}

// resolve maps a reference onto a path inside the filesystem, relative to root.
func resolve(root, ref string) (string, error) {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	unescaped, err := url.PathUnescape(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidPath, ref, err)
	}

	p := path.Join(root, strings.TrimPrefix(unescaped, "/"))
	if !fs.ValidPath(p) || p == "." {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, ref)
	}
	return p, nil
}

func isRemote(ref string) bool {
	if strings.HasPrefix(ref, "//") {
		return true
	}
	u, err := url.Parse(ref)
	return err == nil && u.Scheme != ""
}

func mediaTypeOf(p string, content []byte) string {
	mediaType := mime.TypeByExtension(path.Ext(p))
	if mediaType == "" {
		mediaType = http.DetectContentType(content)
	}
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return mediaType
}

var scriptCloser = strings.NewReplacer("</script", `<\/script`, "</SCRIPT", `<\/SCRIPT`)

// escapeScript keeps inlined code from terminating its own script element.
func escapeScript(s string) string {
	return scriptCloser.Replace(s)
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}
