package macros

import (
	"strconv"

	"github.com/flosch/pongo2/v6"
)

// selfCloseMarker ends the arguments of a self-closing tag.
const selfCloseMarker = "/"

// parserLookahead captures the bare word at the parser's current position
// before any argument is consumed.
type parserLookahead struct {
	word string
}

func peekWord(arguments *pongo2.Parser) parserLookahead {
	if token := arguments.PeekType(pongo2.TokenIdentifier); token != nil {
		return parserLookahead{word: token.Val}
	}
	return parserLookahead{}
}

func (l parserLookahead) PeekWord() string {
	return l.word
}

// argumentReader consumes tag arguments up to, but excluding, a trailing
// self-close marker. Argument values are parsed here rather than with
// Parser.ParseExpression because "/" is pongo2's division operator and would
// be read as a dangling operand.
type argumentReader struct {
	p   *pongo2.Parser
	end int
}

func (r *argumentReader) remaining() int {
	return r.p.Remaining() - (r.p.Count() - r.end)
}

// parseInvocation reads "[word] [,] [key=value | value] ... [/]".
func parseInvocation(name string, start *pongo2.Token, arguments *pongo2.Parser) (Invocation, *pongo2.Error) {
	inv := Invocation{Name: name}
	if start != nil {
		inv.Filename = start.Filename
		inv.Line = start.Line
		inv.Col = start.Col
	}

	reader := &argumentReader{p: arguments, end: arguments.Count()}
	if reader.end > 0 {
		last := arguments.Get(reader.end - 1)
		if last != nil && last.Typ == pongo2.TokenSymbol && last.Val == selfCloseMarker {
			inv.SelfClosed = true
			reader.end--
		}
	}

	if reader.remaining() > 0 && !reader.atKey() {
		word, err := reader.value()
		if err != nil {
			return Invocation{}, err
		}
		inv.Word = word
	}

	for reader.remaining() > 0 {
		if arguments.Match(pongo2.TokenSymbol, ",") != nil {
			continue
		}
		var arg Arg
		if reader.atKey() {
			arg.Key = arguments.MatchType(pongo2.TokenIdentifier).Val
			arguments.Match(pongo2.TokenSymbol, "=")
		}
		if reader.remaining() == 0 {
			return Invocation{}, arguments.Error("Expected a value after '='.", nil)
		}
		value, err := reader.value()
		if err != nil {
			return Invocation{}, err
		}
		arg.Value = value
		inv.Args = append(inv.Args, arg)
	}

	if inv.SelfClosed {
		arguments.Consume()
	}
	return inv, nil
}

func (r *argumentReader) atKey() bool {
	return r.remaining() >= 2 &&
		r.p.PeekType(pongo2.TokenIdentifier) != nil &&
		r.p.PeekN(1, pongo2.TokenSymbol, "=") != nil
}

// value parses a literal, a bare name or a variable path.
func (r *argumentReader) value() (Expr, *pongo2.Error) {
	p := r.p
	token := p.Current()
	if token == nil || r.remaining() <= 0 {
		return nil, p.Error("Expected a value.", nil)
	}

	switch token.Typ {
	case pongo2.TokenString:
		p.Consume()
		return Literal{Value: token.Val}, nil
	case pongo2.TokenNumber:
		p.Consume()
		return r.number(token.Val, false)
	case pongo2.TokenKeyword:
		switch token.Val {
		case "true", "false":
			p.Consume()
			return Literal{Value: token.Val == "true"}, nil
		}
	case pongo2.TokenSymbol:
		if token.Val == "-" && r.remaining() >= 2 && p.PeekTypeN(1, pongo2.TokenNumber) != nil {
			p.Consume()
			digits := p.MatchType(pongo2.TokenNumber)
			return r.number(digits.Val, true)
		}
	case pongo2.TokenIdentifier:
		p.Consume()
		return r.path(token.Val)
	}
	return nil, p.Error("Unexpected token '"+token.Val+"' in tag arguments.", token)
}

func (r *argumentReader) number(digits string, negative bool) (Expr, *pongo2.Error) {
	p := r.p
	if r.remaining() >= 2 && p.Peek(pongo2.TokenSymbol, ".") != nil && p.PeekTypeN(1, pongo2.TokenNumber) != nil {
		p.Consume()
		digits += "." + p.MatchType(pongo2.TokenNumber).Val
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return nil, p.Error("Invalid number '"+digits+"'.", nil)
		}
		if negative {
			f = -f
		}
		return Literal{Value: f}, nil
	}
	i, err := strconv.Atoi(digits)
	if err != nil {
		return nil, p.Error("Invalid number '"+digits+"'.", nil)
	}
	if negative {
		i = -i
	}
	return Literal{Value: i}, nil
}

func (r *argumentReader) path(root string) (Expr, *pongo2.Error) {
	p := r.p
	var steps []string
	for r.remaining() > 0 {
		if r.remaining() >= 2 && p.Peek(pongo2.TokenSymbol, ".") != nil {
			next := p.PeekTypeN(1, pongo2.TokenIdentifier)
			if next == nil {
				next = p.PeekTypeN(1, pongo2.TokenNumber)
			}
			if next == nil {
				return nil, p.Error("Expected an attribute name after '.'.", nil)
			}
			p.ConsumeN(2)
			steps = append(steps, next.Val)
			continue
		}
		if p.Peek(pongo2.TokenSymbol, "[") != nil {
			p.Consume()
			key := p.Current()
			if key == nil || r.remaining() <= 0 || (key.Typ != pongo2.TokenString && key.Typ != pongo2.TokenNumber) {
				return nil, p.Error("Expected a string or number index.", nil)
			}
			p.Consume()
			if p.Match(pongo2.TokenSymbol, "]") == nil {
				return nil, p.Error("Expected ']'.", nil)
			}
			steps = append(steps, key.Val)
			continue
		}
		break
	}
	if len(steps) == 0 {
		return Name(root), nil
	}
	return Path{Root: root, Steps: steps}, nil
}
