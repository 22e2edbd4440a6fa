package mailer

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MarkdownTemplateFile is used when a template directory has no TemplateFile.
// It is rendered with mustache first and then converted to HTML.
const MarkdownTemplateFile = "template.md"

// ButtonClass is the class attribute of links written as [!button|Label](url).
const ButtonClass = "button"

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, buttonExtension{}),
	)
}

func markdownToHTML(md goldmark.Markdown, source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buttonNode is a call-to-action link.
type buttonNode struct {
	ast.BaseInline
	url   []byte
	label []byte
}

var kindButton = ast.NewNodeKind("Button")

func (n *buttonNode) Kind() ast.NodeKind { return kindButton }

func (n *buttonNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"URL":   string(n.url),
		"Label": string(n.label),
	}, nil)
}

var buttonPrefix = []byte("[!button|")

type buttonParser struct{}

func (buttonParser) Trigger() []byte { return []byte{'['} }

func (buttonParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, buttonPrefix) {
		return nil
	}

	rest := line[len(buttonPrefix):]
	labelEnd := bytes.Index(rest, []byte("]("))
	if labelEnd < 0 {
		return nil
	}
	urlEnd := bytes.IndexByte(rest[labelEnd+2:], ')')
	if urlEnd < 0 {
		return nil
	}

	node := &buttonNode{
		label: bytes.Clone(rest[:labelEnd]),
		url:   bytes.Clone(rest[labelEnd+2 : labelEnd+2+urlEnd]),
	}
	block.Advance(len(buttonPrefix) + labelEnd + 2 + urlEnd + 1)
	return node
}

type buttonRenderer struct{}

func (buttonRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindButton, func(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		n := node.(*buttonNode)
		_, _ = w.WriteString(`<a href="`)
		// Label and URL arrive mustache-escaped; resolve entities before escaping again.
		if !gmhtml.IsDangerousURL(n.url) {
			_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.url, true)))
		}
		_, _ = w.WriteString(`" class="` + ButtonClass + `">`)
		_, _ = w.Write(util.EscapeHTML(util.ResolveEntityNames(util.ResolveNumericReferences(n.label))))
		_, _ = w.WriteString(`</a>`)
		return ast.WalkContinue, nil
	})
}

// buttonExtension adds [!button|Label](url) links.
type buttonExtension struct{}

func (buttonExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(buttonParser{}, 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(buttonRenderer{}, 50),
	))
}
