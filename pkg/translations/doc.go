// Package translations loads per-language JSON dictionaries from a directory
// tree and serves them read-only for the lifetime of a Store.
//
// Every regular file below the root is one language. The language code is the
// file's base name up to the first dot, so "de.json", "de.v2.json" and
// "mail/de.json" all load as "de". Subdirectories do not namespace their
// contents: the key space is flat across the whole tree and a later file with
// the same base name replaces an earlier one (files are visited in lexical
// order).
//
// # Basic Usage
//
//	store, err := translations.New("./translations",
//		translations.WithLogger(log),
//	)
//	if err != nil {
//		return err // root directory missing or unreadable
//	}
//
//	if dict, ok := store.Lookup("de"); ok {
//		subject, _ := dict.String("welcome")
//		_ = subject
//	}
//
// Any fs.FS works as a source, including embedded files:
//
//	//go:embed translations
//	var translationsFS embed.FS
//
//	sub, _ := fs.Sub(translationsFS, "translations")
//	store, err := translations.Load(sub)
//
// # Broken Files
//
// A file that cannot be read or is not a JSON object does not fail the load.
// It is reported once, as a *ParseError, to the handler set with
// WithErrorHandler (or logged when no handler is set) and its language is
// simply absent from the Store.
//
// # Reloading
//
// A Store never changes after construction and is safe for concurrent use.
// To pick up filesystem changes build a new Store.
package translations
