package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

// Built-in defaults for the LLM connection
const (
	DefaultHost      = "localhost"
	DefaultPort      = 11434
	DefaultModel     = "deepseek-coder:6.7b"
	DefaultTimeoutMS = 30000
)

// Field names one resolvable LLM setting
type Field string

const (
	FieldHost    Field = "host"
	FieldPort    Field = "port"
	FieldModel   Field = "model"
	FieldTimeout Field = "timeout_ms"
)

// Fields lists every resolvable field in display order.
var Fields = []Field{FieldHost, FieldPort, FieldModel, FieldTimeout}

// Source names the layer that supplied a resolved field's value
type Source string

const (
	SourceProject Source = "project"
	SourceGlobal  Source = "global"
	SourceDefault Source = "default"
)

// Layer is a partial LLM config. Nil fields defer to the next layer.
type Layer struct {
	Host      *string `json:"host,omitempty" yaml:"host,omitempty"`
	Port      *int    `json:"port,omitempty" yaml:"port,omitempty"`
	Model     *string `json:"model,omitempty" yaml:"model,omitempty"`
	TimeoutMS *int    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
}

// Resolved is the flattened LLM config with per-field provenance.
// It is produced fresh on every invocation and never persisted.
type Resolved struct {
	Host      string
	Port      int
	Model     string
	TimeoutMS int
	Origin    map[Field]Source
}

// Resolve merges the project and global layers over the built-in defaults.
// Each field is resolved independently: the first layer defining it wins.
// Either layer may be nil (treated as empty). Resolution never fails.
func Resolve(project, global *Layer) Resolved {
	r := Resolved{
		Host:      DefaultHost,
		Port:      DefaultPort,
		Model:     DefaultModel,
		TimeoutMS: DefaultTimeoutMS,
		Origin: map[Field]Source{
			FieldHost:    SourceDefault,
			FieldPort:    SourceDefault,
			FieldModel:   SourceDefault,
			FieldTimeout: SourceDefault,
		},
	}

	apply := func(layer *Layer, source Source) {
		if layer == nil {
			return
		}
		if layer.Host != nil {
			r.Host = *layer.Host
			r.Origin[FieldHost] = source
		}
		if layer.Port != nil {
			r.Port = *layer.Port
			r.Origin[FieldPort] = source
		}
		if layer.Model != nil {
			r.Model = *layer.Model
			r.Origin[FieldModel] = source
		}
		if layer.TimeoutMS != nil {
			r.TimeoutMS = *layer.TimeoutMS
			r.Origin[FieldTimeout] = source
		}
	}

	// Lowest precedence first so the project layer wins.
	apply(global, SourceGlobal)
	apply(project, SourceProject)

	return r
}

// Value returns the resolved value of a field as a display string.
func (r Resolved) Value(f Field) string {
	switch f {
	case FieldHost:
		return r.Host
	case FieldPort:
		return fmt.Sprintf("%d", r.Port)
	case FieldModel:
		return r.Model
	case FieldTimeout:
		return fmt.Sprintf("%dms", r.TimeoutMS)
	}
	return ""
}

// BaseURL returns the Ollama base URL for the resolved host and port.
func (r Resolved) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", r.Host, r.Port)
}

// Timeout returns the resolved request timeout.
func (r Resolved) Timeout() time.Duration {
	return time.Duration(r.TimeoutMS) * time.Millisecond
}

// Global is the user-scoped configuration document
type Global struct {
	LLM *Layer `yaml:"llm,omitempty"`
}

// ParseError reports a present-but-malformed config document.
// Absence of the document is never an error.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse config file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// GlobalPath returns the user-scoped config document path.
func GlobalPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".devcoach", "config.yaml")
	}
	return filepath.Join(dir, "devcoach", "config.yaml")
}

// LoadGlobal reads the global config document. A missing file is not an
// error and yields an empty config; unparsable content surfaces a ParseError.
func LoadGlobal(path string) (*Global, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Global{}, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var global Global
	if err := yaml.Unmarshal(data, &global); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &global, nil
}
