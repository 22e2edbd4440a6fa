package translations

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/dmitrymomot/tmplmail/pkg/logger"
)

// Store maps language codes to their dictionaries.
// It is immutable after creation, making it safe for concurrent use.
type Store struct {
	dictionaries map[string]Dictionary
	logger       *slog.Logger
	errorHandler func(error)
}

// Option configures a Store during construction.
type Option func(*Store)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithErrorHandler sets a handler that receives every skipped file as a *ParseError.
// When set, skipped files are not logged.
func WithErrorHandler(handler func(error)) Option {
	return func(s *Store) {
		s.errorHandler = handler
	}
}

// New loads all translation files below root.
// Returns ErrConfiguration if root does not exist or is not a directory.
func New(root string, opts ...Option) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfiguration, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrConfiguration, root)
	}

	return Load(os.DirFS(root), opts...)
}

// Load reads every translation file in fsys.
// Broken files are reported and skipped; only a failing walk is returned as an error.
func Load(fsys fs.FS, opts ...Option) (*Store, error) {
	s := newStore(opts...)

	files, err := Files(fsys)
	if err != nil {
		return nil, fmt.Errorf("%w: walking translations: %v", ErrConfiguration, err)
	}

	for _, f := range files {
		dict, err := parseFile(fsys, f)
		if err != nil {
			s.report(err)
			continue
		}
		s.dictionaries[f.Name] = dict
	}

	s.logger.Debug("translations loaded",
		slog.Int("files", len(files)),
		slog.Int("languages", len(s.dictionaries)),
	)

	return s, nil
}

// FromMap builds a Store from dictionaries already in memory.
func FromMap(dictionaries map[string]Dictionary, opts ...Option) *Store {
	s := newStore(opts...)
	for lang, dict := range dictionaries {
		if dict != nil {
			s.dictionaries[lang] = dict
		}
	}
	return s
}

func newStore(opts ...Option) *Store {
	s := &Store{
		dictionaries: make(map[string]Dictionary),
		logger:       logger.NewNope(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) report(err error) {
	if s.errorHandler != nil {
		s.errorHandler(err)
		return
	}
	s.logger.Error("skipping translation file", slog.String("error", err.Error()))
}

// Lookup returns the dictionary for lang.
func (s *Store) Lookup(lang string) (Dictionary, bool) {
	if s == nil || lang == "" {
		return nil, false
	}
	dict, ok := s.dictionaries[lang]
	return dict, ok
}

// Languages returns the loaded language codes in sorted order.
func (s *Store) Languages() []string {
	if s == nil {
		return nil
	}
	langs := make([]string, 0, len(s.dictionaries))
	for lang := range s.dictionaries {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Len returns the number of loaded languages.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dictionaries)
}
