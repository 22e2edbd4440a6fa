package preview

import (
	"net/http"

	"golang.org/x/text/language"
)

// maxAcceptLanguageLength caps the header before parsing.
const maxAcceptLanguageLength = 4096

// requestLanguage picks the render language: the lang query parameter if
// present, else the best Accept-Language match among available. An empty
// result lets the renderer fall back to its default language.
func requestLanguage(r *http.Request, available []string) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}

	header := r.Header.Get("Accept-Language")
	if header == "" || len(available) == 0 {
		return ""
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	wanted, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(wanted) == 0 {
		return ""
	}

	supported := make([]language.Tag, 0, len(available))
	names := make([]string, 0, len(available))
	for _, name := range available {
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		names = append(names, name)
	}
	if len(supported) == 0 {
		return ""
	}

	_, idx, confidence := language.NewMatcher(supported).Match(wanted...)
	if confidence == language.No {
		return ""
	}
	return names[idx]
}
