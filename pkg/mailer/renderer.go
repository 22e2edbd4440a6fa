package mailer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/cbroglie/mustache"
	"github.com/yuin/goldmark"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/tmplmail/pkg/inline"
	"github.com/dmitrymomot/tmplmail/pkg/logger"
	"github.com/dmitrymomot/tmplmail/pkg/translations"
)

const (
	// TemplateFile is the file every template directory must contain.
	TemplateFile = "template.html"

	// PartialsDir is the templates-root directory searched for shared partials.
	PartialsDir = "partials"
)

// Inliner embeds local assets into rendered HTML.
// *inline.Inliner is the default implementation.
type Inliner interface {
	Inline(ctx context.Context, html string, opts inline.Options) (string, error)
}

// Renderer resolves translations and renders template directories into messages.
type Renderer struct {
	fs      fs.FS
	store   *translations.Store
	inliner Inliner
	logger  *slog.Logger
	md      goldmark.Markdown

	// Caches parsed templates when enabled (safe: stores parsed structure, not rendered output)
	templateCache map[string]*parsedTemplate

	defaultLanguage   string
	wrapWidth         int
	inlineAttribute   bool
	compress          bool
	matchBaseLanguage bool
	cacheTemplates    bool

	mu sync.RWMutex
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	Inliner Inliner      // Default: inline.New()
	Logger  *slog.Logger // Default: no-op logger

	DefaultLanguage string // Default: "de"
	WrapWidth       int    // Default: 130

	InlineAttribute    bool
	DisableCompression bool
	MatchBaseLanguage  bool
	CacheTemplates     bool
}

// NewRenderer creates a new renderer with default config.
func NewRenderer(templates fs.FS, store *translations.Store) *Renderer {
	return NewRendererWithConfig(templates, store, RendererConfig{})
}

// NewRendererWithConfig creates a new renderer with custom config.
// A nil store renders every template without translations.
func NewRendererWithConfig(templates fs.FS, store *translations.Store, cfg RendererConfig) *Renderer {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = DefaultLanguage
	}
	if cfg.WrapWidth <= 0 {
		cfg.WrapWidth = DefaultWrapWidth
	}
	if cfg.Inliner == nil {
		cfg.Inliner = inline.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNope()
	}
	if store == nil {
		store = translations.FromMap(nil)
	}

	return &Renderer{
		fs:                templates,
		store:             store,
		inliner:           cfg.Inliner,
		logger:            cfg.Logger,
		md:                newMarkdown(),
		templateCache:     make(map[string]*parsedTemplate),
		defaultLanguage:   cfg.DefaultLanguage,
		wrapWidth:         cfg.WrapWidth,
		inlineAttribute:   cfg.InlineAttribute,
		compress:          !cfg.DisableCompression,
		matchBaseLanguage: cfg.MatchBaseLanguage,
		cacheTemplates:    cfg.CacheTemplates,
	}
}

// Render resolves the request's language, renders subject and body, derives
// the plain-text alternative and inlines local assets.
// Any failure aborts the render; no partial message is returned.
func (r *Renderer) Render(ctx context.Context, req TemplateRequest) (*Message, error) {
	if err := validateTemplateName(req.Name); err != nil {
		return nil, err
	}

	dict, lang := r.ResolveLanguage(ctx, req.Language)

	subject, err := r.RenderSubject(dict, req.Name, req.Data)
	if err != nil {
		return nil, err
	}

	body, err := r.RenderBody(ctx, req.Name, dict, req.Data)
	if err != nil {
		return nil, err
	}

	text, err := PlainText(body, r.wrapWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: plain text for %s: %v", ErrRender, req.Name, err)
	}

	html, err := r.InlineAssets(ctx, body, req.Name, req.InlineAttribute)
	if err != nil {
		return nil, err
	}

	return &Message{
		Subject:  subject,
		HTML:     html,
		Text:     text,
		Language: lang,
	}, nil
}

// ResolveLanguage picks the dictionary for code.
// Order: exact code, base language (when enabled), default language, none.
// The second return value is the language actually used, empty if none.
func (r *Renderer) ResolveLanguage(ctx context.Context, code string) (translations.Dictionary, string) {
	if dict, ok := r.store.Lookup(code); ok {
		return dict, code
	}

	if r.matchBaseLanguage && code != "" {
		if tag, err := language.Parse(code); err == nil {
			base, _ := tag.Base()
			if dict, ok := r.store.Lookup(base.String()); ok {
				return dict, base.String()
			}
		}
	}

	if dict, ok := r.store.Lookup(r.defaultLanguage); ok {
		r.logger.InfoContext(ctx, "no language found, switching to default",
			slog.String("requested", code),
			slog.String("default", r.defaultLanguage),
		)
		return dict, r.defaultLanguage
	}

	r.logger.InfoContext(ctx, "no language defined", slog.String("requested", code))
	return translations.Dictionary{}, ""
}

// RenderSubject renders the dictionary entry named after the template.
// Returns an empty subject when the entry is missing or not a string.
func (r *Renderer) RenderSubject(dict translations.Dictionary, name string, data any) (string, error) {
	raw, ok := dict.String(name)
	if !ok {
		return "", nil
	}

	tmpl, err := mustache.ParseString(raw)
	if err != nil {
		return "", fmt.Errorf("%w: subject of %s: %v", ErrRender, name, err)
	}
	subject, err := tmpl.Render(bindings(dict, data))
	if err != nil {
		return "", fmt.Errorf("%w: subject of %s: %v", ErrRender, name, err)
	}
	return subject, nil
}

// RenderBody renders name/template.html with the data and lang bindings.
// Directories holding only template.md are rendered and then converted from
// Markdown. A missing file yields a *TemplateNotFoundError.
func (r *Renderer) RenderBody(ctx context.Context, name string, dict translations.Dictionary, data any) (string, error) {
	if err := validateTemplateName(name); err != nil {
		return "", err
	}

	tmpl, err := r.getTemplate(name)
	if err != nil {
		return "", err
	}

	html, err := tmpl.Render(bindings(dict, data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, name, err)
	}
	if tmpl.markdown {
		if html, err = markdownToHTML(r.md, html); err != nil {
			return "", fmt.Errorf("%w: %s: markdown: %v", ErrRender, name, err)
		}
	}

	r.logger.DebugContext(ctx, "template rendered", slog.Int("bytes", len(html)))
	return html, nil
}

// InlineAssets embeds the assets referenced by html, resolved against the
// template directory. attribute overrides the configured attribute mode when non-nil.
func (r *Renderer) InlineAssets(ctx context.Context, html, name string, attribute *bool) (string, error) {
	mode := r.inlineAttribute
	if attribute != nil {
		mode = *attribute
	}

	out, err := r.inliner.Inline(ctx, html, inline.Options{
		FS:        r.fs,
		RootPath:  name,
		Attribute: mode,
		Compress:  r.compress,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInline, err)
	}
	return out, nil
}

// Templates lists the template directories that contain a template file.
func (r *Renderer) Templates() ([]string, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: reading templates: %v", ErrConfiguration, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == PartialsDir {
			continue
		}
		for _, file := range []string{TemplateFile, MarkdownTemplateFile} {
			if _, err := fs.Stat(r.fs, path.Join(e.Name(), file)); err == nil {
				names = append(names, e.Name())
				break
			}
		}
	}
	slices.Sort(names)
	return names, nil
}

// Languages returns the languages available to the renderer.
func (r *Renderer) Languages() []string {
	return r.store.Languages()
}

type parsedTemplate struct {
	*mustache.Template
	markdown bool
}

// getTemplate returns a cached template or parses (and, if enabled, caches) it.
func (r *Renderer) getTemplate(name string) (*parsedTemplate, error) {
	if !r.cacheTemplates {
		return r.parseTemplate(name)
	}

	r.mu.RLock()
	if cached, ok := r.templateCache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if cached, ok := r.templateCache[name]; ok {
		return cached, nil
	}

	tmpl, err := r.parseTemplate(name)
	if err != nil {
		return nil, err
	}
	r.templateCache[name] = tmpl
	return tmpl, nil
}

func (r *Renderer) parseTemplate(name string) (*parsedTemplate, error) {
	file := path.Join(name, TemplateFile)
	markdown := false
	content, err := fs.ReadFile(r.fs, file)
	if errors.Is(err, fs.ErrNotExist) {
		if md, mdErr := fs.ReadFile(r.fs, path.Join(name, MarkdownTemplateFile)); mdErr == nil {
			content, err, markdown = md, nil, true
		}
	}
	if err != nil {
		return nil, &TemplateNotFoundError{Path: file, Err: err}
	}

	tmpl, err := mustache.ParseStringPartials(string(content), &partialProvider{fs: r.fs, dir: name})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRender, name, err)
	}
	return &parsedTemplate{Template: tmpl, markdown: markdown}, nil
}

// partialProvider resolves {{> name}} from the template directory first,
// then from the shared partials directory. Unknown partials render empty.
type partialProvider struct {
	fs  fs.FS
	dir string
}

func (p *partialProvider) Get(name string) (string, error) {
	for _, candidate := range []string{
		path.Join(p.dir, name+".html"),
		path.Join(PartialsDir, name+".html"),
	} {
		if !fs.ValidPath(candidate) {
			continue
		}
		data, err := fs.ReadFile(p.fs, candidate)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}

// bindings builds the {data, lang} render context.
func bindings(dict translations.Dictionary, data any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	if dict == nil {
		dict = translations.Dictionary{}
	}
	return map[string]any{
		"data": data,
		"lang": dict,
	}
}

func validateTemplateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNoTemplate
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ErrInvalidTemplateName
	}
	return nil
}
