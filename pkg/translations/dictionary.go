package translations

// Dictionary holds one language's strings as decoded from its JSON file.
// Values are strings or nested dictionaries (map[string]any).
type Dictionary map[string]any

// String returns the string stored under key.
// It reports false for missing keys and for non-string values.
func (d Dictionary) String(key string) (string, bool) {
	v, ok := d[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
