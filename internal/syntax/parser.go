package syntax

import "fmt"

// Parser builds a syntax tree from Lua source.
type Parser struct {
	l    *Lexer
	tok  Token // current token
	peek Token // one token of lookahead
	err  *Error
}

// bailout unwinds the parser on the first error.
type bailout struct{}

// Parse parses a complete chunk.
func Parse(src string) (block *Block, err error) {
	p := &Parser{l: NewLexer(src)}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			block, err = nil, p.err
		}
	}()
	p.tok = p.l.NextToken()
	p.checkLexer()
	p.peek = p.l.NextToken()
	p.checkLexer()

	block = p.parseBlock()
	if p.tok.Kind != EOF {
		p.errorf("'<eof>' expected near %s", p.tok)
	}
	return block, nil
}

func (p *Parser) checkLexer() {
	if p.l.err != nil {
		p.err = p.l.err
		panic(bailout{})
	}
}

func (p *Parser) errorf(format string, args ...any) {
	p.err = &Error{Pos: Pos{Line: p.tok.Line, Col: p.tok.Col}, Msg: fmt.Sprintf(format, args...)}
	panic(bailout{})
}

func (p *Parser) next() Token {
	prev := p.tok
	p.tok = p.peek
	p.peek = p.l.NextToken()
	p.checkLexer()
	return prev
}

func (p *Parser) expect(k Kind) Token {
	if p.tok.Kind != k {
		p.errorf("'%s' expected near %s", k, p.tok)
	}
	return p.next()
}

// expectMatch reports an unclosed construct with the line it opened on.
func (p *Parser) expectMatch(k, open Kind, line int) Token {
	if p.tok.Kind != k {
		if line == p.tok.Line {
			p.errorf("'%s' expected near %s", k, p.tok)
		}
		p.errorf("'%s' expected (to close '%s' at line %d) near %s", k, open, line, p.tok)
	}
	return p.next()
}

func (p *Parser) accept(k Kind) bool {
	if p.tok.Kind == k {
		p.next()
		return true
	}
	return false
}

func (p *Parser) name() *NameExpr {
	p.gotoAsName()
	return &NameExpr{Tok: p.expect(Name)}
}

// gotoAsName turns a goto keyword in name position into an identifier,
// as Lua 5.1 has no goto statement.
func (p *Parser) gotoAsName() {
	if p.tok.Kind == Goto {
		p.tok.Kind = Name
		p.tok.Value = p.tok.Text
	}
}

// atName reports whether the current token can be read as a name.
func (p *Parser) atName() bool {
	return p.tok.Kind == Name || p.tok.Kind == Goto
}

func blockFollow(k Kind) bool {
	switch k {
	case Else, Elseif, End, Until, EOF:
		return true
	}
	return false
}

func (p *Parser) parseBlock() *Block {
	b := &Block{}
	for !blockFollow(p.tok.Kind) {
		if p.tok.Kind == Return {
			b.Return = p.parseReturn()
			break
		}
		if s := p.parseStatement(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
	return b
}

func (p *Parser) parseReturn() *ReturnStmt {
	p.next()
	r := &ReturnStmt{}
	if !blockFollow(p.tok.Kind) && p.tok.Kind != Semicolon {
		r.Values = p.parseExprList()
	}
	p.accept(Semicolon)
	return r
}

func (p *Parser) parseStatement() Stmt {
	line := p.tok.Line
	switch p.tok.Kind {
	case Semicolon:
		p.next()
		return nil
	case If:
		return p.parseIf(line)
	case While:
		p.next()
		cond := p.parseExpr()
		p.expect(Do)
		body := p.parseBlock()
		p.expectMatch(End, While, line)
		return &WhileStmt{Cond: cond, Body: body}
	case Do:
		p.next()
		body := p.parseBlock()
		p.expectMatch(End, Do, line)
		return &DoStmt{Body: body}
	case For:
		return p.parseFor(line)
	case Repeat:
		p.next()
		body := p.parseBlock()
		p.expectMatch(Until, Repeat, line)
		return &RepeatStmt{Body: body, Cond: p.parseExpr()}
	case Function:
		return p.parseFunctionStmt(line)
	case Local:
		p.next()
		if p.accept(Function) {
			name := p.name()
			return &LocalFunctionStmt{Name: name, Func: p.parseFuncBody(line)}
		}
		return p.parseLocal()
	case DoubleColon:
		p.next()
		name := p.name()
		p.expect(DoubleColon)
		return &LabelStmt{Name: name}
	case Break:
		return &BreakStmt{Tok: p.next()}
	case Goto:
		// goto is an ordinary identifier in Lua 5.1.
		if p.peek.Kind == Name {
			p.next()
			return &GotoStmt{Label: p.name()}
		}
		p.gotoAsName()
	}
	return p.parseExprStatement()
}

func (p *Parser) parseIf(line int) *IfStmt {
	s := &IfStmt{}
	p.next()
	s.Conds = append(s.Conds, p.parseExpr())
	p.expect(Then)
	s.Blocks = append(s.Blocks, p.parseBlock())
	for p.tok.Kind == Elseif {
		p.next()
		s.Conds = append(s.Conds, p.parseExpr())
		p.expect(Then)
		s.Blocks = append(s.Blocks, p.parseBlock())
	}
	if p.accept(Else) {
		s.Else = p.parseBlock()
	}
	p.expectMatch(End, If, line)
	return s
}

func (p *Parser) parseFor(line int) Stmt {
	p.next()
	first := p.name()
	if p.accept(Assign) {
		s := &NumericForStmt{Var: first}
		s.Start = p.parseExpr()
		p.expect(Comma)
		s.Limit = p.parseExpr()
		if p.accept(Comma) {
			s.Step = p.parseExpr()
		}
		p.expect(Do)
		s.Body = p.parseBlock()
		p.expectMatch(End, For, line)
		return s
	}
	s := &GenericForStmt{Names: []*NameExpr{first}}
	for p.accept(Comma) {
		s.Names = append(s.Names, p.name())
	}
	p.expect(In)
	s.Exprs = p.parseExprList()
	p.expect(Do)
	s.Body = p.parseBlock()
	p.expectMatch(End, For, line)
	return s
}

func (p *Parser) parseFunctionStmt(line int) *FunctionStmt {
	p.next()
	s := &FunctionStmt{Path: []*NameExpr{p.name()}}
	for p.accept(Dot) {
		s.Path = append(s.Path, p.name())
	}
	if p.accept(Colon) {
		s.Method = p.name()
	}
	s.Func = p.parseFuncBody(line)
	return s
}

func (p *Parser) parseLocal() *LocalStmt {
	s := &LocalStmt{}
	for {
		s.Names = append(s.Names, p.name())
		attrib := ""
		if p.accept(Less) {
			attrib = p.expect(Name).Value
			p.expect(Greater)
		}
		s.Attribs = append(s.Attribs, attrib)
		if !p.accept(Comma) {
			break
		}
	}
	if p.accept(Assign) {
		s.Values = p.parseExprList()
	}
	return s
}

func (p *Parser) parseExprStatement() Stmt {
	e := p.parseSuffixedExpr()
	if p.tok.Kind == Assign || p.tok.Kind == Comma {
		targets := []Expr{e}
		for p.accept(Comma) {
			targets = append(targets, p.parseSuffixedExpr())
		}
		p.expect(Assign)
		for _, t := range targets {
			switch t.(type) {
			case *NameExpr, *FieldExpr, *IndexExpr:
			default:
				p.errorf("syntax error near %s", p.tok)
			}
		}
		return &AssignStmt{Targets: targets, Values: p.parseExprList()}
	}
	call, ok := e.(*CallExpr)
	if !ok {
		p.errorf("syntax error near %s", p.tok)
	}
	return &CallStmt{Call: call}
}

func (p *Parser) parseFuncBody(line int) *FunctionExpr {
	f := &FunctionExpr{}
	p.expect(LParen)
	if p.tok.Kind != RParen {
		for {
			if p.accept(Ellipsis) {
				f.Vararg = true
				break
			}
			f.Params = append(f.Params, p.name())
			if !p.accept(Comma) {
				break
			}
		}
	}
	p.expect(RParen)
	f.Body = p.parseBlock()
	p.expectMatch(End, Function, line)
	return f
}

func (p *Parser) parseExprList() []Expr {
	list := []Expr{p.parseExpr()}
	for p.accept(Comma) {
		list = append(list, p.parseExpr())
	}
	return list
}

func (p *Parser) parsePrimaryExpr() Expr {
	p.gotoAsName()
	switch p.tok.Kind {
	case Name:
		return &NameExpr{Tok: p.next()}
	case LParen:
		line := p.tok.Line
		p.next()
		x := p.parseExpr()
		p.expectMatch(RParen, LParen, line)
		return &ParenExpr{X: x}
	}
	p.errorf("unexpected symbol near %s", p.tok)
	return nil
}

func (p *Parser) parseSuffixedExpr() Expr {
	x := p.parsePrimaryExpr()
	for {
		switch p.tok.Kind {
		case Dot:
			p.next()
			x = &FieldExpr{X: x, Name: p.name()}
		case LBracket:
			p.next()
			idx := p.parseExpr()
			p.expect(RBracket)
			x = &IndexExpr{X: x, Index: idx}
		case Colon:
			p.next()
			method := p.name()
			x = &CallExpr{Fn: x, Method: method, Args: p.parseArgs()}
		case LParen, String, LBrace:
			x = &CallExpr{Fn: x, Args: p.parseArgs()}
		default:
			return x
		}
	}
}

func (p *Parser) parseArgs() Args {
	switch p.tok.Kind {
	case String:
		return Args{Kind: ArgsString, String: &StringExpr{Tok: p.next()}}
	case LBrace:
		return Args{Kind: ArgsTable, Table: p.parseTable()}
	case LParen:
		line := p.tok.Line
		p.next()
		a := Args{Kind: ArgsParen}
		if p.tok.Kind != RParen {
			a.List = p.parseExprList()
		}
		p.expectMatch(RParen, LParen, line)
		return a
	}
	p.errorf("function arguments expected near %s", p.tok)
	return Args{}
}

func (p *Parser) parseTable() *TableExpr {
	line := p.tok.Line
	p.expect(LBrace)
	t := &TableExpr{}
	for p.tok.Kind != RBrace {
		f := &TableField{}
		switch {
		case p.tok.Kind == LBracket:
			p.next()
			f.Key = p.parseExpr()
			p.expect(RBracket)
			p.expect(Assign)
			f.Value = p.parseExpr()
		case p.atName() && p.peek.Kind == Assign:
			f.Name = p.name()
			p.next()
			f.Value = p.parseExpr()
		default:
			f.Value = p.parseExpr()
		}
		t.Fields = append(t.Fields, f)
		if !p.accept(Comma) && !p.accept(Semicolon) {
			break
		}
	}
	p.expectMatch(RBrace, LBrace, line)
	return t
}

func (p *Parser) parseSimpleExpr() Expr {
	switch p.tok.Kind {
	case Number:
		return &NumberExpr{Tok: p.next()}
	case String:
		return &StringExpr{Tok: p.next()}
	case Nil, True, False, Ellipsis:
		return &LiteralExpr{Tok: p.next()}
	case LBrace:
		return p.parseTable()
	case Function:
		line := p.tok.Line
		p.next()
		return p.parseFuncBody(line)
	}
	return p.parseSuffixedExpr()
}

// Binary operator priorities as {left, right}; right-associative operators
// have a lower right priority.
var binaryPriority = map[Kind][2]int{
	Or:           {1, 1},
	And:          {2, 2},
	Less:         {3, 3},
	Greater:      {3, 3},
	LessEqual:    {3, 3},
	GreaterEqual: {3, 3},
	NotEqual:     {3, 3},
	Equal:        {3, 3},
	Pipe:         {4, 4},
	Tilde:        {5, 5},
	Ampersand:    {6, 6},
	ShiftLeft:    {7, 7},
	ShiftRight:   {7, 7},
	Concat:       {9, 8},
	Plus:         {10, 10},
	Minus:        {10, 10},
	Star:         {11, 11},
	Slash:        {11, 11},
	DoubleSlash:  {11, 11},
	Percent:      {11, 11},
	Caret:        {14, 13},
}

const unaryPriority = 12

func (p *Parser) parseExpr() Expr {
	return p.parseSubExpr(0)
}

func (p *Parser) parseSubExpr(limit int) Expr {
	var x Expr
	switch p.tok.Kind {
	case Not, Minus, Hash, Tilde:
		op := p.next()
		x = &UnaryExpr{Op: op, X: p.parseSubExpr(unaryPriority)}
	default:
		x = p.parseSimpleExpr()
	}
	for {
		prio, ok := binaryPriority[p.tok.Kind]
		if !ok || prio[0] <= limit {
			return x
		}
		op := p.next()
		y := p.parseSubExpr(prio[1])
		x = &BinaryExpr{Op: op, X: x, Y: y}
	}
}
