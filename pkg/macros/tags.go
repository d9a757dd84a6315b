package macros

import (
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formmacros/pkg/forms"
)

// TagInfo describes an installed tag.
type TagInfo struct {
	Name   string
	Syntax string
	Emits  string
	Block  bool
}

// Tags lists the tags the macro set installs.
func Tags() []TagInfo {
	return []TagInfo{
		{Name: TagForm, Syntax: `{% form name [args] %}...{% endform %}`, Emits: "begin, body, end", Block: true},
		{Name: TagForm, Syntax: `{% form name [args] / %}`, Emits: "whole form"},
		{Name: TagForm, Syntax: `{% form errors|body|controls|buttons %}`, Emits: "one part of the bound form"},
		{Name: TagPair, Syntax: `{% pair name [args] %}`, Emits: "control with label and errors"},
		{Name: TagGroup, Syntax: `{% group name [args] %}`, Emits: "fieldset group"},
		{Name: TagContainer, Syntax: `{% container name [args] %}`, Emits: "nested container"},
	}
}

var (
	installMu sync.Mutex
	current   *Set
)

// Set is an installed macro set.
type Set struct {
	translator *Translator
	logger     logrus.FieldLogger
}

// Install registers the form, pair, group and container tags in pongo2's
// process-wide tag table. Installing again replaces the previous set, so
// call it during startup, before templates are compiled.
func Install(options ...Option) (*Set, error) {
	set := newSet(options)

	installMu.Lock()
	defer installMu.Unlock()
	if err := set.register(); err != nil {
		return nil, err
	}
	return set, nil
}

// Ensure installs the macro set unless one is already installed, in which
// case the installed set is returned and the tag table is left untouched.
// Unlike Install it is safe to call while other goroutines compile
// templates, once the first call has returned.
func Ensure(options ...Option) (*Set, error) {
	installMu.Lock()
	defer installMu.Unlock()
	if current != nil {
		return current, nil
	}

	set := newSet(options)
	if err := set.register(); err != nil {
		return nil, err
	}
	return set, nil
}

func newSet(options []Option) *Set {
	cfg := newConfig(options)
	return &Set{
		translator: &Translator{hint: cfg.hint, logger: cfg.logger},
		logger:     cfg.logger,
	}
}

// register writes the tags into pongo2. Callers hold installMu.
func (s *Set) register() error {
	replace := current != nil
	register := pongo2.RegisterTag
	if replace {
		register = pongo2.ReplaceTag
	}
	for _, tag := range s.parsers() {
		if err := register(tag.name, tag.parser); err != nil {
			return fmt.Errorf("macros: register tag %q: %w", tag.name, err)
		}
	}
	current = s

	s.logger.WithField("replaced", replace).Debug("form macros installed")
	return nil
}

// Translator returns the translator backing the installed tags.
func (s *Set) Translator() *Translator {
	return s.translator
}

type namedParser struct {
	name   string
	parser pongo2.TagParser
}

func (s *Set) parsers() []namedParser {
	return []namedParser{
		{name: TagForm, parser: s.parseForm},
		{name: TagPair, parser: s.componentParser(TagPair, s.translator.TranslatePair)},
		{name: TagGroup, parser: s.componentParser(TagGroup, s.translator.TranslateGroup)},
		{name: TagContainer, parser: s.componentParser(TagContainer, s.translator.TranslateContainer)},
	}
}

func (s *Set) parseForm(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	lookahead := peekWord(arguments)
	inv, err := parseInvocation(TagForm, start, arguments)
	if err != nil {
		return nil, err
	}

	open := s.translator.TranslateOpenTag(inv, lookahead)
	node := &formNode{token: start, open: open}
	if open.IsEmpty {
		return node, nil
	}

	wrapper, endargs, err := doc.WrapUntilTag("end" + TagForm)
	if err != nil {
		return nil, err
	}
	if endargs.Count() > 0 {
		return nil, endargs.Error("Arguments not allowed here.", nil)
	}
	node.body = wrapper
	node.close = s.translator.TranslateCloseTag(open)
	return node, nil
}

func (s *Set) componentParser(name string, translate func(Invocation) Emitted) pongo2.TagParser {
	return func(_ *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
		inv, err := parseInvocation(name, start, arguments)
		if err != nil {
			return nil, err
		}
		if inv.Word == nil {
			return nil, arguments.Error(fmt.Sprintf("Tag '%s' requires a name.", name), start)
		}
		return &emitNode{token: start, emitted: translate(inv)}, nil
	}
}

type formNode struct {
	token *pongo2.Token
	open  OpenTag
	body  *pongo2.NodeWrapper
	close Emitted
}

func (n *formNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	form, err := n.open.Run(writer, Snapshot(ctx))
	if err != nil {
		return ctx.OrigError(err, n.token)
	}
	bind(ctx, form)
	if n.body == nil {
		return nil
	}

	if perr := n.body.Execute(ctx, writer); perr != nil {
		return perr
	}

	// Nested tags may rebind the aliases; endform closes the form it opened.
	bind(ctx, form)
	if _, err := n.close.Run(writer, Snapshot(ctx)); err != nil {
		return ctx.OrigError(err, n.token)
	}
	return nil
}

type emitNode struct {
	token   *pongo2.Token
	emitted Emitted
}

func (n *emitNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	if _, err := n.emitted.Run(writer, Snapshot(ctx)); err != nil {
		return ctx.OrigError(err, n.token)
	}
	return nil
}

// Snapshot copies the public and private pongo2 context into a Scope.
// Private values win, matching pongo2's own variable resolution. Values
// bound by pongo2 tags such as for and with are unwrapped to plain Go values.
func Snapshot(ctx *pongo2.ExecutionContext) Scope {
	scope := make(Scope, len(ctx.Public)+len(ctx.Private))
	for key, value := range ctx.Public {
		scope[key] = unwrapValue(value)
	}
	for key, value := range ctx.Private {
		scope[key] = unwrapValue(value)
	}
	return scope
}

func unwrapValue(value any) any {
	if v, ok := value.(*pongo2.Value); ok && v != nil {
		return v.Interface()
	}
	return value
}

func bind(ctx *pongo2.ExecutionContext, form forms.FormLike) {
	if form == nil {
		return
	}
	for _, key := range boundNames {
		ctx.Private[key] = form
	}
}
