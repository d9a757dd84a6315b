package extension

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultName is the name the macro set registers under when the
// configuration does not provide one.
const DefaultName = "twBootstrapRenderer"

// Config is the YAML configuration of the extension:
//
//	name: twBootstrapRenderer
//	renderer: bootstrap
//	templates: ./themes/bootstrap
//	theme: admin
//	variant: dark
//	classes:
//	  form: form-horizontal well
//	locale: es
//	translations:
//	  es:
//	    Email: Correo
//	debug: true
type Config struct {
	Name      string            `yaml:"name"`
	Renderer  string            `yaml:"renderer"`
	Templates string            `yaml:"templates"`
	Theme     string            `yaml:"theme"`
	Variant   string            `yaml:"variant"`
	Classes   map[string]string `yaml:"classes"`
	// Locale selects the Translations used to localize labels.
	Locale       string                       `yaml:"locale"`
	Translations map[string]map[string]string `yaml:"translations"`
	Debug        bool                         `yaml:"debug"`
}

// DefaultConfig selects the bootstrap renderer under DefaultName.
func DefaultConfig() Config {
	return Config{
		Name:     DefaultName,
		Renderer: RendererBootstrap,
	}
}

// ParseConfig decodes YAML configuration, filling defaults for omitted keys.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("extension: decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads configuration from path. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("extension: read config %q: %w", path, err)
	}
	return ParseConfig(data)
}

// Validate reports configuration values the extension cannot honour.
func (c Config) Validate() error {
	switch c.Renderer {
	case RendererDefault, RendererBootstrap:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRenderer, c.Renderer)
	}
	if c.Variant != "" && c.Theme == "" {
		return errors.New("extension: variant requires a theme")
	}
	return nil
}

func (c *Config) normalize() {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = DefaultName
	}
	c.Renderer = strings.ToLower(strings.TrimSpace(c.Renderer))
	if c.Renderer == "" {
		c.Renderer = RendererBootstrap
	}
	c.Theme = strings.TrimSpace(c.Theme)
	c.Variant = strings.TrimSpace(c.Variant)
	c.Locale = strings.TrimSpace(c.Locale)
}
