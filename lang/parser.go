package lang

// parser is a hand-written recursive-descent parser over the token stream.
// The grammar is LL(2) at statement heads (a lowercase name may open either
// a variable declaration or a graph statement); everywhere else one token
// of lookahead suffices.
type parser struct {
	toks []Token
	pos  int
}

// Parse tokenizes and parses a complete prototyping-language text into its
// ordered statement sequence. The input must contain at least one statement;
// every statement must be terminated by '.'. On any lexical or grammatical
// problem a *SyntaxError (wrapping ErrSyntax) is returned and no statements
// are exposed.
func Parse(src string) ([]Statement, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	var stmts []Statement
	for p.peek().Kind != TokEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(TokDot); err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	if len(stmts) == 0 {
		tok := p.peek()
		return nil, syntaxErrorf(tok.Line, tok.Column, "empty input: expected at least one statement")
	}

	return stmts, nil
}

// peek returns the current token without consuming it.
func (p *parser) peek() Token { return p.toks[p.pos] }

// peekAt returns the token n positions ahead (0 == peek).
func (p *parser) peekAt(n int) Token {
	i := p.pos + n
	if i >= len(p.toks) {
		i = len(p.toks) - 1 // EOF token
	}

	return p.toks[i]
}

// next consumes and returns the current token.
func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokEOF {
		p.pos++
	}

	return tok
}

// expect consumes a token of the given kind or fails.
func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return Token{}, syntaxErrorf(tok.Line, tok.Column, "expected %s, found %s", kind, describe(tok))
	}

	return p.next(), nil
}

// describe renders a token for error messages.
func describe(tok Token) string {
	switch tok.Kind {
	case TokTypeName, TokName:
		return "'" + tok.Text + "'"
	case TokInt:
		return "integer"
	case TokString:
		return "string literal"
	default:
		return tok.Kind.String()
	}
}

// parseStatement dispatches on the statement head.
func (p *parser) parseStatement() (Statement, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokTypeName:
		// The special sighting form applies only when Sighting carries no
		// count prefix; a counted Sighting is an ordinary object reference.
		if tok.Text == "Sighting" {
			return p.parseSighting()
		}

		return p.parseGraphStatement()

	case TokLParen:
		return p.parseGraphStatement()

	case TokInt:
		// "<count> Type ..." is a graph statement; "<count> name ..." can
		// only open a variable declaration (counted variable uses are
		// not part of the language).
		if p.peekAt(1).Kind == TokName {
			return p.parseVarDecl()
		}

		return p.parseGraphStatement()

	case TokName:
		// "name ," / "name :" / "name {" open a declaration; anything
		// else is a graph statement headed by a variable use.
		switch p.peekAt(1).Kind {
		case TokComma, TokColon, TokLBrace:
			return p.parseVarDecl()
		}

		return p.parseGraphStatement()
	}

	return nil, syntaxErrorf(tok.Line, tok.Column, "expected a statement, found %s", describe(tok))
}

// parseSighting parses the ternary "Sighting {block}? of <graph>" form. If
// the tokens after the optional block continue as an ordinary relationship,
// the already-consumed prefix is reinterpreted as a plain object reference
// and parsing resumes as a graph statement.
func (p *parser) parseSighting() (Statement, error) {
	head := p.next() // "Sighting"

	var block *PropertyBlock
	var err error
	if p.peek().Kind == TokLBrace {
		if block, err = p.parsePropertyBlock(); err != nil {
			return nil, err
		}
	}

	tok := p.peek()
	if tok.Kind == TokName && tok.Text == "of" {
		p.next()
		of, err := p.parseGraphStatement()
		if err != nil {
			return nil, err
		}

		return &SightingStatement{Block: block, Of: of, Line: head.Line, Column: head.Column}, nil
	}
	if tok.Kind == TokDot {
		return &SightingStatement{Block: block, Line: head.Line, Column: head.Column}, nil
	}

	// Not the special form after all: fall back to a graph statement whose
	// source is an ordinary "Sighting" object reference.
	src := &ObjectRef{Count: 1, TypeName: head.Text, Block: block, Line: head.Line, Column: head.Column}

	return p.parseGraphTail(&GraphStatement{
		Sources: []*ObjectRef{src},
		Line:    head.Line,
		Column:  head.Column,
	})
}

// parseVarDecl parses "decl (, decl)* : Type".
func (p *parser) parseVarDecl() (Statement, error) {
	head := p.peek()
	stmt := &VarDeclStatement{Line: head.Line, Column: head.Column}

	for {
		decl, err := p.parseOneDecl()
		if err != nil {
			return nil, err
		}
		stmt.Decls = append(stmt.Decls, decl)

		if p.peek().Kind != TokComma {
			break
		}
		p.next()
	}

	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}

	typeTok, err := p.expect(TokTypeName)
	if err != nil {
		return nil, err
	}
	stmt.TypeName = typeTok.Text

	return stmt, nil
}

// parseOneDecl parses "count? name block?".
func (p *parser) parseOneDecl() (*VarDecl, error) {
	decl := &VarDecl{Count: 1}

	if p.peek().Kind == TokInt {
		tok := p.next()
		decl.Count = tok.Int
	}

	nameTok, err := p.expect(TokName)
	if err != nil {
		return nil, err
	}
	if !isVariableName(nameTok.Text) {
		return nil, syntaxErrorf(nameTok.Line, nameTok.Column, "invalid variable name %q", nameTok.Text)
	}
	decl.Name = nameTok.Text
	decl.Line, decl.Column = nameTok.Line, nameTok.Column

	if p.peek().Kind == TokLBrace {
		if decl.Block, err = p.parsePropertyBlock(); err != nil {
			return nil, err
		}
	}

	return decl, nil
}

// parseGraphStatement parses "(ref | list) relationship?".
func (p *parser) parseGraphStatement() (*GraphStatement, error) {
	head := p.peek()
	stmt := &GraphStatement{Line: head.Line, Column: head.Column}

	if head.Kind == TokLParen {
		p.next()
		for {
			ref, err := p.parseObjectRef()
			if err != nil {
				return nil, err
			}
			stmt.Sources = append(stmt.Sources, ref)

			if p.peek().Kind == TokRParen {
				break
			}
		}
		p.next() // ')'
		stmt.List = true
	} else {
		ref, err := p.parseObjectRef()
		if err != nil {
			return nil, err
		}
		stmt.Sources = []*ObjectRef{ref}
	}

	return p.parseGraphTail(stmt)
}

// parseGraphTail parses the optional relationship continuing stmt.
func (p *parser) parseGraphTail(stmt *GraphStatement) (*GraphStatement, error) {
	tok := p.peek()
	if tok.Kind != TokInt && tok.Kind != TokName {
		return stmt, nil
	}

	rel := &Relationship{Count: 1, Line: tok.Line, Column: tok.Column}

	counted := false
	if tok.Kind == TokInt {
		p.next()
		rel.Count = tok.Int
		counted = true
	}

	nameTok, err := p.expect(TokName)
	if err != nil {
		return nil, err
	}
	if !isRelationshipName(nameTok.Text) {
		return nil, syntaxErrorf(nameTok.Line, nameTok.Column,
			"invalid relationship name %q: lowercase letters, digits and hyphens only", nameTok.Text)
	}
	rel.Type = nameTok.Text

	// "on" folds its targets into an embedded property; parallel copies
	// make no sense there.
	if rel.Type == "on" && counted {
		return nil, syntaxErrorf(nameTok.Line, nameTok.Column, "relationship 'on' cannot have a count")
	}

	if rel.Target, err = p.parseGraphStatement(); err != nil {
		return nil, err
	}
	stmt.Rel = rel

	return stmt, nil
}

// parseObjectRef parses "count? Type block?" or a bare variable use.
func (p *parser) parseObjectRef() (*ObjectRef, error) {
	ref := &ObjectRef{Count: 1}

	head := p.peek()
	ref.Line, ref.Column = head.Line, head.Column

	counted := false
	if head.Kind == TokInt {
		p.next()
		ref.Count = head.Int
		counted = true
	}

	tok := p.next()
	switch tok.Kind {
	case TokTypeName:
		ref.TypeName = tok.Text
		if p.peek().Kind == TokLBrace {
			block, err := p.parsePropertyBlock()
			if err != nil {
				return nil, err
			}
			ref.Block = block
		}

		return ref, nil

	case TokName:
		if counted {
			return nil, syntaxErrorf(tok.Line, tok.Column,
				"variable use %q cannot have a count; counts belong on the declaration", tok.Text)
		}
		if !isVariableName(tok.Text) {
			return nil, syntaxErrorf(tok.Line, tok.Column, "invalid variable name %q", tok.Text)
		}
		if p.peek().Kind == TokLBrace {
			return nil, syntaxErrorf(tok.Line, tok.Column,
				"variable use %q cannot have a property block", tok.Text)
		}
		ref.VarName = tok.Text

		return ref, nil
	}

	return nil, syntaxErrorf(tok.Line, tok.Column, "expected an object type or variable, found %s", describe(tok))
}

// parsePropertyBlock parses "{ [assignment (, assignment)*] }".
func (p *parser) parsePropertyBlock() (*PropertyBlock, error) {
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}

	block := &PropertyBlock{}
	if p.peek().Kind == TokRBrace {
		p.next()
		return block, nil
	}

	for {
		entry, err := p.parsePropertyEntry()
		if err != nil {
			return nil, err
		}
		block.Entries = append(block.Entries, entry)

		tok := p.peek()
		switch tok.Kind {
		case TokComma:
			p.next()
			continue
		case TokRBrace:
			p.next()
			return block, nil
		case TokEOF:
			return nil, syntaxErrorf(tok.Line, tok.Column, "unterminated property block")
		default:
			return nil, syntaxErrorf(tok.Line, tok.Column, "expected ',' or '}', found %s", describe(tok))
		}
	}
}

// parsePropertyEntry parses "name : (string | string-list | graph)".
func (p *parser) parsePropertyEntry() (*PropertyEntry, error) {
	nameTok, err := p.expect(TokName)
	if err != nil {
		return nil, err
	}
	if !isPropertyName(nameTok.Text) {
		return nil, syntaxErrorf(nameTok.Line, nameTok.Column,
			"invalid property name %q: lowercase letters, digits and underscores only", nameTok.Text)
	}
	if _, err = p.expect(TokColon); err != nil {
		return nil, err
	}

	entry := &PropertyEntry{Name: nameTok.Text, Line: nameTok.Line, Column: nameTok.Column}

	switch p.peek().Kind {
	case TokString:
		tok := p.next()
		entry.Value = &StringValue{Value: tok.Text}

	case TokLBracket:
		list, err := p.parseStringList()
		if err != nil {
			return nil, err
		}
		entry.Value = list

	default:
		stmt, err := p.parseGraphStatement()
		if err != nil {
			return nil, err
		}
		entry.Value = stmt
	}

	return entry, nil
}

// parseStringList parses "[ [string (, string)*] ]".
func (p *parser) parseStringList() (*StringListValue, error) {
	open, err := p.expect(TokLBracket)
	if err != nil {
		return nil, err
	}

	list := &StringListValue{}
	if p.peek().Kind == TokRBracket {
		p.next()
		return list, nil
	}

	for {
		tok, err := p.expect(TokString)
		if err != nil {
			return nil, err
		}
		list.Values = append(list.Values, tok.Text)

		switch p.peek().Kind {
		case TokComma:
			p.next()
		case TokRBracket:
			p.next()
			return list, nil
		case TokEOF:
			return nil, syntaxErrorf(open.Line, open.Column, "unterminated string list")
		default:
			next := p.peek()
			return nil, syntaxErrorf(next.Line, next.Column, "expected ',' or ']', found %s", describe(next))
		}
	}
}
