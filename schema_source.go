package amino

import "os"

// LoadSchema resolves a schema source the way NewEngine's callers
// typically have it on hand: either a path to a file on disk containing
// schema text, or the schema text itself. It is a thin convenience over
// os.ReadFile; anything more elaborate (remote fetches, registries,
// templating) is the caller's concern, not this package's.
func LoadSchema(source string) (string, error) {
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		data, err := os.ReadFile(source)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return source, nil
}

// NewEngineFromSource is NewEngine preceded by LoadSchema, for the common
// case of a caller holding a schema file path rather than schema text.
func NewEngineFromSource(source string, opts ...EngineOption) (*Engine, error) {
	text, err := LoadSchema(source)
	if err != nil {
		return nil, err
	}
	return NewEngine(text, opts...)
}
