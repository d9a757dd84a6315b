package extension

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	theme "github.com/goliatone/go-theme"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formmacros/pkg/forms"
	"github.com/goliatone/go-formmacros/pkg/macros"
	"github.com/goliatone/go-formmacros/pkg/render"
	"github.com/goliatone/go-formmacros/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formmacros/pkg/renderers/bootstrap"
)

// Renderer names accepted by Config.Renderer.
const (
	RendererDefault   = "default"
	RendererBootstrap = bootstrap.Name
)

var ErrUnknownRenderer = errors.New("extension: unknown renderer")

type Option func(*Extension)

// WithLogger sets the logger handed to the macro set and the engine.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Extension) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithThemeSelector resolves Config.Theme and Config.Variant into bootstrap
// class tokens.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(e *Extension) {
		e.selector = selector
	}
}

// WithRenderers registers additional renderers next to the built-in ones.
func WithRenderers(renderers ...render.Renderer) Option {
	return func(e *Extension) {
		e.extra = append(e.extra, renderers...)
	}
}

// WithMacroOptions forwards options to macros.Install.
func WithMacroOptions(options ...macros.Option) Option {
	return func(e *Extension) {
		e.macroOptions = append(e.macroOptions, options...)
	}
}

// Extension is the registration surface of the macro set: it installs the
// form tags into the template compiler and selects the renderer forms use.
type Extension struct {
	config       Config
	logger       logrus.FieldLogger
	selector     theme.ThemeSelector
	extra        []render.Renderer
	macroOptions []macros.Option
	registry     *render.Registry
	translator   render.Translator

	installOnce sync.Once
	set         *macros.Set
	installErr  error
	installed   atomic.Bool
}

// New builds an extension from cfg. The default and bootstrap renderers are
// always registered.
func New(cfg Config, options ...Option) (*Extension, error) {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ext := &Extension{
		config:   cfg,
		logger:   logrus.StandardLogger(),
		registry: render.NewRegistry(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(ext)
	}
	ext.logger = ext.logger.WithField("extension", cfg.Name)
	if len(cfg.Translations) > 0 {
		ext.translator = render.MapTranslator(cfg.Translations)
	}

	bootstrapRenderer, err := ext.newBootstrap()
	if err != nil {
		return nil, err
	}

	renderers := append([]render.Renderer{forms.DefaultRenderer{}, bootstrapRenderer}, ext.extra...)
	for _, renderer := range renderers {
		if err := ext.registry.Register(renderer); err != nil {
			return nil, fmt.Errorf("extension: %w", err)
		}
	}
	return ext, nil
}

func (e *Extension) newBootstrap() (*bootstrap.Renderer, error) {
	options := []bootstrap.Option{bootstrap.WithTemplatesDir(e.config.Templates)}

	if e.selector != nil && e.config.Theme != "" {
		selection, err := e.selector.Select(e.config.Theme, e.config.Variant)
		if err != nil {
			return nil, fmt.Errorf("extension: select theme %q: %w", e.config.Theme, err)
		}
		options = append(options, bootstrap.WithTheme(selection))
	}

	if len(e.config.Classes) > 0 {
		classes := make(map[bootstrap.ClassKey]string, len(e.config.Classes))
		for key, value := range e.config.Classes {
			classes[bootstrap.ClassKey(key)] = value
		}
		options = append(options, bootstrap.WithClasses(classes))
	}

	renderer, err := bootstrap.New(options...)
	if err != nil {
		return nil, fmt.Errorf("extension: %w", err)
	}
	return renderer, nil
}

func (e *Extension) Name() string {
	return e.config.Name
}

func (e *Extension) Config() Config {
	return e.config
}

func (e *Extension) Registry() *render.Registry {
	return e.registry
}

// Renderer returns the renderer selected by the configuration.
func (e *Extension) Renderer() (render.Renderer, error) {
	return e.registry.Get(e.config.Renderer)
}

// Install registers the form tags with the template compiler. Only the
// first call registers; later calls return the same set, so engines can be
// built per request without touching pongo2's tag table.
func (e *Extension) Install() (*macros.Set, error) {
	e.installOnce.Do(func() {
		e.set, e.installErr = e.install()
		e.installed.Store(e.installErr == nil)
	})
	return e.set, e.installErr
}

func (e *Extension) install() (*macros.Set, error) {
	options := append([]macros.Option{macros.WithLogger(e.logger)}, e.macroOptions...)
	set, err := macros.Install(options...)
	if err != nil {
		return nil, fmt.Errorf("extension: %w", err)
	}

	var names []string
	seen := make(map[string]bool)
	for _, tag := range macros.Tags() {
		if !seen[tag.Name] {
			seen[tag.Name] = true
			names = append(names, tag.Name)
		}
	}
	e.logger.WithFields(logrus.Fields{
		"renderer": e.config.Renderer,
		"tags":     names,
	}).Info("form macros registered")
	return set, nil
}

// Installed reports whether Install succeeded on this extension.
func (e *Extension) Installed() bool {
	return e.installed.Load()
}

// Prepare assigns the configured renderer to forms that have none and
// localizes labels when a locale is configured.
func (e *Extension) Prepare(targets ...*forms.Form) error {
	renderer, err := e.Renderer()
	if err != nil {
		return fmt.Errorf("extension: %w", err)
	}
	for _, form := range targets {
		if form == nil {
			continue
		}
		if e.translator != nil && e.config.Locale != "" {
			render.LocalizeForm(form, e.config.Locale, e.translator, nil)
		}
		if form.HasRenderer() {
			continue
		}
		form.SetRenderer(renderer)
		e.logger.WithField("form", form.ComponentName()).Debug("renderer assigned")
	}
	return nil
}

// PrepareHost runs Prepare over every form held by a host container.
func (e *Extension) PrepareHost(host *forms.Container) error {
	if host == nil {
		return nil
	}
	var targets []*forms.Form
	for _, component := range host.Components() {
		if form, ok := component.(*forms.Form); ok {
			targets = append(targets, form)
		}
	}
	return e.Prepare(targets...)
}

// Engine installs the macro set and returns a template engine compiling
// with it.
func (e *Extension) Engine(options ...gotemplate.Option) (*gotemplate.Engine, error) {
	if _, err := e.Install(); err != nil {
		return nil, err
	}
	base := []gotemplate.Option{
		gotemplate.WithLogger(e.logger),
		gotemplate.WithDebug(e.config.Debug),
		gotemplate.WithoutMacros(),
	}
	if e.translator != nil {
		base = append(base, gotemplate.WithTemplateFunc(render.TemplateI18nFuncs(e.translator, render.TemplateI18nConfig{})))
	}
	engine, err := gotemplate.New(append(base, options...)...)
	if err != nil {
		return nil, fmt.Errorf("extension: %w", err)
	}
	return engine, nil
}
