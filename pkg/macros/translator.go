package macros

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formmacros/pkg/forms"
)

// Lookahead exposes the next bare word of a tag's arguments without
// consuming it.
type Lookahead interface {
	PeekWord() string
}

// EmptyHint reports that the host already knows a tag has no body. Hosts
// that resolve self-closing tags themselves inject it with WithEmptyHint.
type EmptyHint func(inv Invocation) bool

// Option configures a Translator or an installed Set.
type Option func(*config)

type config struct {
	hint   EmptyHint
	logger logrus.FieldLogger
}

// WithEmptyHint injects the host's empty-body hint.
func WithEmptyHint(hint EmptyHint) Option {
	return func(cfg *config) {
		cfg.hint = hint
	}
}

// WithLogger routes translation traces to logger. Emitted code is logged at
// debug level.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{logger: logrus.StandardLogger()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// Emitted is the translation of one tag: the canonical code text and the
// call that executes it against a render scope.
type Emitted struct {
	Code string
	run  func(w io.Writer, scope Scope) (forms.FormLike, error)
}

// Empty reports whether nothing was emitted.
func (e Emitted) Empty() bool {
	return e.run == nil
}

// Run executes the emitted call and returns the form it resolved, if any.
func (e Emitted) Run(w io.Writer, scope Scope) (forms.FormLike, error) {
	if e.run == nil {
		return nil, nil
	}
	return e.run(w, scope)
}

// OpenTag is the translation of a form open tag.
type OpenTag struct {
	Emitted
	// IsEmpty marks a tag without body and without an endform tag.
	IsEmpty bool
	// Block is set when the next bare word was a part keyword.
	Block bool
	// Hinted is set when the host's empty-body hint made the tag empty.
	Hinted bool
}

// Translator turns tag invocations into Emitted calls. Translation is pure:
// the same invocation and lookahead always produce the same code.
type Translator struct {
	hint   EmptyHint
	logger logrus.FieldLogger
}

// NewTranslator creates a Translator.
func NewTranslator(options ...Option) *Translator {
	cfg := newConfig(options)
	return &Translator{hint: cfg.hint, logger: cfg.logger}
}

// TranslateOpenTag translates {% form %}. A trailing "/" or the host hint
// render the whole form at once; a part keyword makes the tag self-closing;
// anything else opens a block closed by endform.
func (t *Translator) TranslateOpenTag(inv Invocation, lookahead Lookahead) OpenTag {
	var open OpenTag
	switch {
	case inv.SelfClosed:
		open = OpenTag{Emitted: renderNow(inv), IsEmpty: true}
	case t.hint != nil && t.hint(inv):
		open = OpenTag{Emitted: renderNow(inv), IsEmpty: true, Hinted: true}
	default:
		block := lookahead != nil && IsPartKeyword(lookahead.PeekWord())
		open = OpenTag{Emitted: dispatch(inv), IsEmpty: block, Block: block}
	}
	t.trace(inv, open.Code, logrus.Fields{"empty": open.IsEmpty})
	return open
}

// TranslateCloseTag translates {% endform %}. Hinted tags already rendered
// everything at the open tag.
func (t *Translator) TranslateCloseTag(open OpenTag) Emitted {
	if open.Hinted {
		return Emitted{}
	}
	return Emitted{
		Code: "RenderFormEnd(__form)",
		run: func(w io.Writer, scope Scope) (forms.FormLike, error) {
			form, err := boundForm(scope, TagForm)
			if err != nil {
				return nil, err
			}
			return form, forms.RenderFormEnd(w, form)
		},
	}
}

// TranslatePair translates {% pair %}: render one component of the bound form.
func (t *Translator) TranslatePair(inv Invocation) Emitted {
	emitted := renderComponent(inv, TagPair)
	t.trace(inv, emitted.Code, nil)
	return emitted
}

// TranslateContainer translates {% container %}; same call shape as pair.
func (t *Translator) TranslateContainer(inv Invocation) Emitted {
	emitted := renderComponent(inv, TagContainer)
	t.trace(inv, emitted.Code, nil)
	return emitted
}

// TranslateGroup translates {% group %}: render a group object, or the bound
// form's group of that name.
func (t *Translator) TranslateGroup(inv Invocation) Emitted {
	emitted := Emitted{
		Code: fmt.Sprintf("__form.Render(resolveGroup(%s), %s)", formatWord(inv.Word), formatArgs(inv.Args)),
		run: func(w io.Writer, scope Scope) (forms.FormLike, error) {
			form, err := boundForm(scope, TagGroup)
			if err != nil {
				return nil, err
			}
			group, err := resolveGroup(form, evalWord(inv.Word, scope))
			if err != nil {
				return nil, err
			}
			return form, form.Render(w, group, evalArgs(inv.Args, scope))
		},
	}
	t.trace(inv, emitted.Code, nil)
	return emitted
}

func renderNow(inv Invocation) Emitted {
	return Emitted{
		Code: fmt.Sprintf("form = __form = _form = resolveForm(%s); __form.Render(nil, %s)", formatWord(inv.Word), formatArgs(inv.Args)),
		run: func(w io.Writer, scope Scope) (forms.FormLike, error) {
			form, err := resolveForm(evalWord(inv.Word, scope), scope)
			if err != nil {
				return nil, err
			}
			return form, form.Render(w, nil, evalArgs(inv.Args, scope))
		},
	}
}

func dispatch(inv Invocation) Emitted {
	return Emitted{
		Code: fmt.Sprintf("form = __form = _form = RenderFormPart(%s, %s, scope)", formatWord(inv.Word), formatArgs(inv.Args)),
		run: func(w io.Writer, scope Scope) (forms.FormLike, error) {
			return RenderFormPart(w, evalWord(inv.Word, scope), evalArgs(inv.Args, scope), scope)
		},
	}
}

func renderComponent(inv Invocation, tag string) Emitted {
	return Emitted{
		Code: fmt.Sprintf("__form.Render(__form[%s], %s)", formatWord(inv.Word), formatArgs(inv.Args)),
		run: func(w io.Writer, scope Scope) (forms.FormLike, error) {
			form, err := boundForm(scope, tag)
			if err != nil {
				return nil, err
			}
			component, err := resolveComponent(form, evalWord(inv.Word, scope))
			if err != nil {
				return nil, err
			}
			return form, form.Render(w, component, evalArgs(inv.Args, scope))
		},
	}
}

func (t *Translator) trace(inv Invocation, code string, extra logrus.Fields) {
	if t.logger == nil {
		return
	}
	fields := logrus.Fields{"tag": inv.Name, "line": inv.Line}
	if inv.Filename != "" {
		fields["template"] = inv.Filename
	}
	for key, value := range extra {
		fields[key] = value
	}
	t.logger.WithFields(fields).Debug(code)
}
