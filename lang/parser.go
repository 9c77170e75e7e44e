package lang

import "fmt"

// Parse lexes and parses FAN source text into a Source tree. It is the
// hand-written stand-in for the external parser spec.md assumes; the core
// packages (ident, checker, compiler) depend only on the tree types in
// tree.go, never on this parser.
func Parse(src []byte) (*Source, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, src: src}
	var blocks []Block
	for !p.at(tokEOF) {
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return &Source{Blocks: blocks}, nil
}

type parser struct {
	toks []token
	pos  int
	src  []byte
}

func (p *parser) cur() token { return p.toks[p.pos] }

func (p *parser) at(k tokenKind) bool { return p.cur().kind == k }

func (p *parser) atKeyword(kw string) bool {
	return p.cur().kind == tokIdent && p.cur().text == kw
}

func (p *parser) atPunct(s string) bool {
	return p.cur().kind == tokPunct && p.cur().text == s
}

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expectPunct(s string) (token, error) {
	if !p.atPunct(s) {
		return token{}, p.errorf("expected %q, found %q", s, p.cur().text)
	}
	return p.advance(), nil
}

func (p *parser) expectIdent() (token, error) {
	if !p.at(tokIdent) {
		return token{}, p.errorf("expected identifier, found %q", p.cur().text)
	}
	return p.advance(), nil
}

func (p *parser) expectKeyword(kw string) (token, error) {
	if !p.atKeyword(kw) {
		return token{}, p.errorf("expected keyword %q, found %q", kw, p.cur().text)
	}
	return p.advance(), nil
}

func (p *parser) errorf(format string, args ...any) error {
	t := p.cur()
	return &SyntaxError{Location: Location{t.begin, t.end}, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) parseIdentList() ([]string, error) {
	var names []string
	for {
		tok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		names = append(names, tok.text)
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return names, nil
}

func (p *parser) parseBlock() (Block, error) {
	switch {
	case p.atKeyword("network"):
		return p.parseNetwork()
	case p.atKeyword("request"):
		return p.parseRequest()
	default:
		return nil, p.errorf("expected 'network' or 'request', found %q", p.cur().text)
	}
}

func (p *parser) parseNetwork() (Block, error) {
	begin := p.cur().begin
	if _, err := p.expectKeyword("network"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var params []NetworkParameter
	for !p.atPunct("}") {
		param, err := p.parseNetworkParameter()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	end := p.cur().end
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &Network{Location: Location{begin, end}, Name: name.text, Params: params}, nil
}

func (p *parser) parseNetworkParameter() (NetworkParameter, error) {
	switch {
	case p.atKeyword("automata"):
		a, err := p.parseAutomata()
		if err != nil {
			return nil, err
		}
		return AutomataParam{Automata: a}, nil
	case p.atKeyword("link"):
		l, err := p.parseLink()
		if err != nil {
			return nil, err
		}
		return LinkParam{Link: l}, nil
	case p.atKeyword("events"):
		p.advance()
		names, err := p.parseBracedIdentList()
		if err != nil {
			return nil, err
		}
		return EventsParam{Names: names}, nil
	case p.atKeyword("obs"):
		p.advance()
		names, err := p.parseBracedIdentList()
		if err != nil {
			return nil, err
		}
		return ObserveLabelsParam{Names: names}, nil
	case p.atKeyword("rel"):
		p.advance()
		names, err := p.parseBracedIdentList()
		if err != nil {
			return nil, err
		}
		return RelevanceLabelsParam{Names: names}, nil
	default:
		return nil, p.errorf("unexpected network member %q", p.cur().text)
	}
}

func (p *parser) parseBracedIdentList() ([]string, error) {
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	names, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *parser) parseLink() (*Link, error) {
	begin := p.cur().begin
	if _, err := p.expectKeyword("link"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	src, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("->"); err != nil {
		return nil, err
	}
	dst, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	end := p.cur().end
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &Link{Location: Location{begin, end}, Name: name.text, Source: src.text, Destination: dst.text}, nil
}

func (p *parser) parseAutomata() (*Automata, error) {
	begin := p.cur().begin
	if _, err := p.expectKeyword("automata"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var params []AutomataParameter
	for !p.atPunct("}") {
		param, err := p.parseAutomataParameter()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	end := p.cur().end
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &Automata{Location: Location{begin, end}, Name: name.text, Params: params}, nil
}

func (p *parser) parseAutomataParameter() (AutomataParameter, error) {
	switch {
	case p.atKeyword("state"):
		begin := p.cur().begin
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		kind := StateKindPlain
		if p.atKeyword("begin") {
			p.advance()
			kind = StateKindBegin
		}
		end := p.cur().end
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return StateDeclParam{Decl: StateDeclaration{Location: Location{begin, end}, Kind: kind, Name: name.text}}, nil
	case p.atKeyword("trans"):
		t, err := p.parseTransition()
		if err != nil {
			return nil, err
		}
		return TransitionParam{Transition: t}, nil
	default:
		return nil, p.errorf("unexpected automaton member %q", p.cur().text)
	}
}

func (p *parser) parseTransition() (*TransitionDeclaration, error) {
	begin := p.cur().begin
	if _, err := p.expectKeyword("trans"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	src, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("->"); err != nil {
		return nil, err
	}
	dst, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	decl := &TransitionDeclaration{Name: name.text, Source: src.text, Destination: dst.text}
	for !p.atPunct(";") {
		switch {
		case p.atKeyword("in"):
			p.advance()
			ev, err := p.parseEvent()
			if err != nil {
				return nil, err
			}
			decl.Input = ev
		case p.atKeyword("out"):
			p.advance()
			ev, err := p.parseEvent()
			if err != nil {
				return nil, err
			}
			decl.Output = append(decl.Output, *ev)
		case p.atKeyword("rel"):
			p.advance()
			tok, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			v := tok.text
			decl.RelLabel = &v
		case p.atKeyword("obs"):
			p.advance()
			tok, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			v := tok.text
			decl.ObsLabel = &v
		default:
			return nil, p.errorf("unexpected transition clause %q", p.cur().text)
		}
	}
	end := p.cur().end
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	decl.Location = Location{begin, end}
	return decl, nil
}

func (p *parser) parseEvent() (*Event, error) {
	begin := p.cur().begin
	evName, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	linkName, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	end := p.cur().end
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return &Event{Location: Location{begin, end}, Name: evName.text, Link: linkName.text}, nil
}

func (p *parser) parseRequest() (Block, error) {
	begin := p.cur().begin
	if _, err := p.expectKeyword("request"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("for"); err != nil {
		return nil, err
	}
	netName, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var cmds []Command
	for !p.atPunct("}") {
		cmd, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	end := p.cur().end
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &Request{Location: Location{begin, end}, Name: name.text, Network: netName.text, List: cmds}, nil
}

func (p *parser) parseCommand() (Command, error) {
	begin := p.cur().begin
	switch {
	case p.atKeyword("fullspace"):
		p.advance()
		end := p.cur().end
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return SpaceCommand{Location{begin, end}}, nil
	case p.atKeyword("linspace"):
		p.advance()
		if _, err := p.expectPunct("("); err != nil {
			return nil, err
		}
		names, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		var save *string
		if p.atKeyword("save") {
			p.advance()
			if !p.at(tokString) {
				return nil, p.errorf("expected string literal after 'save'")
			}
			v := p.cur().text
			save = &v
			p.advance()
		}
		end := p.cur().end
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return LinspaceCommand{Location: Location{begin, end}, ObsLabels: names, SavePath: save}, nil
	case p.atKeyword("diagnosis"):
		p.advance()
		if p.atKeyword("load") {
			p.advance()
			if !p.at(tokString) {
				return nil, p.errorf("expected string literal after 'load'")
			}
			v := p.cur().text
			p.advance()
			end := p.cur().end
			if _, err := p.expectPunct(";"); err != nil {
				return nil, err
			}
			return DiagnosisCommand{Location: Location{begin, end}, LoadFile: &v}, nil
		}
		if _, err := p.expectPunct("("); err != nil {
			return nil, err
		}
		names, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		end := p.cur().end
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return DiagnosisCommand{Location: Location{begin, end}, RelLabels: names}, nil
	default:
		return nil, p.errorf("unexpected request command %q", p.cur().text)
	}
}
