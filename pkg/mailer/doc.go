// Package mailer composes emails from template directories and translation
// dictionaries and hands them to a pluggable delivery provider.
//
// # Architecture
//
//   - Renderer: resolves the language, renders subject and body with mustache,
//     derives a plain-text alternative and embeds local assets
//   - Sender: interface that delivery providers implement (see the smtp and
//     resend subpackages)
//   - Mailer: merges rendered content into caller-supplied mail options and
//     delivers them through a Sender
//
// # Layout
//
// Every immediate subdirectory of the templates root is a template. It must
// contain template.html and may hold the stylesheets, scripts and images the
// HTML references:
//
//	templates/
//	  newsletter/
//	    template.html
//	    style.css
//	    logo.png
//	  partials/
//	    footer.html
//	translations/
//	  de.json
//	  en.json
//
// # Usage
//
//	sender, err := smtp.New(smtp.Config{Host: "smtp.example.com", Port: 587, SenderEmail: "team@example.com"})
//	if err != nil {
//		return err
//	}
//
//	m, err := mailer.NewFromConfig(mailer.Config{
//		TemplatesPath:    "./templates",
//		TranslationsPath: "./translations",
//		DefaultLanguage:  "de",
//	}, sender, mailer.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	info, err := m.Send(ctx, mailer.TemplateRequest{
//		Name:     "newsletter",
//		Language: "de",
//		Data:     map[string]any{"name": "Ann"},
//	}, &mailer.Email{
//		To: []string{"max.mustermann@example.com"},
//	})
//
// # Templates
//
// Templates see two bindings: data (the request payload) and lang (the
// resolved translation dictionary). Values are HTML-escaped; use triple braces
// for raw output:
//
//	<h1>{{lang.headline}}</h1>
//	<p>{{data.name}}</p>
//	{{{data.signatureHTML}}}
//	{{> footer}}
//
// Partials are looked up in the template directory first, then in the
// partials directory of the templates root.
//
// A directory may hold template.md instead of template.html. It is rendered
// with mustache and then converted with goldmark (GFM), so
// [!button|Open](https://example.com) becomes a link with class "button".
// Raw HTML in markdown is omitted and javascript: style URLs are dropped.
//
// The subject is the translation entry named after the template, rendered
// with the same bindings:
//
//	{"newsletter": "News for {{data.name}}"}
//
// # Language Resolution
//
// The requested language is used when the store has it. Otherwise the
// default language is used and a notice is logged. If neither exists the
// template renders with an empty lang binding and no subject.
// RendererConfig.MatchBaseLanguage adds a step in between that tries the
// base language ("de" for "de-AT").
//
// # Errors
//
// Every per-request error is returned and, when WithErrorHandler is set,
// also passed to the handler:
//
//   - ErrInvalidRequest: missing template name or recipient
//   - ErrTemplateNotFound: template.html missing (*TemplateNotFoundError)
//   - ErrRender: mustache parse or render failure
//   - ErrInline: asset embedding failed
//   - ErrDelivery: the Sender failed; the provider error is wrapped
//
// ErrConfiguration is returned by NewFromConfig for unusable directories.
// Nothing is retried.
package mailer
