package translations

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// File is a translation file found during a walk.
type File struct {
	Path string // slash-separated path relative to the walked root
	Name string // language code: base name up to the first dot
}

// Files walks fsys and returns every non-directory entry in lexical order.
// Files whose derived name is empty (dotfiles) are left out.
func Files(fsys fs.FS) ([]File, error) {
	var files []File
	err := fs.WalkDir(fsys, ".", func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name, _, _ := strings.Cut(path.Base(filePath), ".")
		if name == "" {
			return nil
		}

		files = append(files, File{Path: filePath, Name: name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func parseFile(fsys fs.FS, f File) (Dictionary, error) {
	data, err := fs.ReadFile(fsys, f.Path)
	if err != nil {
		return nil, &ParseError{Path: f.Path, Language: f.Name, Err: fmt.Errorf("reading file: %w", err)}
	}

	var dict Dictionary
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, &ParseError{Path: f.Path, Language: f.Name, Err: err}
	}
	if dict == nil {
		// "null" decodes without error but is not a dictionary.
		return nil, &ParseError{Path: f.Path, Language: f.Name, Err: fmt.Errorf("not a JSON object")}
	}

	return dict, nil
}
