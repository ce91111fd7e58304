package parser

import (
	"strconv"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/token"
)

// parseExpr parses an expression at the given precedence. Binding and
// control forms (let, match, receive, spawn, send, beam) swallow the rest
// of the expression; parenthesize them to embed in operator chains.
func (p *Parser) parseExpr(prec int) (ast.Expr, error) {
	switch p.cur.Type {
	case token.LET:
		return p.parseLet()
	case token.MATCH:
		return p.parseMatch()
	case token.RECEIVE:
		return p.parseReceive()
	case token.SPAWN:
		return p.parseSpawn()
	case token.SEND:
		return p.parseSend()
	case token.BEAM:
		return p.parseFFI()
	}

	left, err := p.parseApplication()
	if err != nil {
		return nil, err
	}

	for {
		opPrec, isOp := precedences[p.cur.Type]
		if !isOp || opPrec <= prec {
			return left, nil
		}
		op := p.cur
		p.advance()

		if op.Type == token.CONS {
			// Right-associative: the tail may itself be a cons chain,
			// or a bare symbol; well-formedness is checked by typing.
			right, err := p.parseExpr(opPrec - 1)
			if err != nil {
				return nil, err
			}
			left = ast.NewConsExpr(left, right, op.Line)
			continue
		}

		right, err := p.parseExpr(opPrec)
		if err != nil {
			return nil, err
		}
		left = ast.NewInfixExpr(string(op.Type), left, right, op.Line)
	}
}

// parseApplication parses an atomic expression and, when followed by
// further atoms, greedily applies it. Only symbols (and computed callees)
// may be applied; applying a literal is a parse-time error.
func (p *Parser) parseApplication() (ast.Expr, error) {
	callee, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if !atomStart(p.cur.Type) {
		return callee, nil
	}
	if isLiteral(callee) {
		return nil, diag.New(diag.StageParser, diag.CodeSyntaxInvalidApplication, callee.Line(),
			"cannot apply a non-function value to arguments")
	}

	var args []ast.Expr
	for atomStart(p.cur.Type) {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return ast.NewApplyExpr(callee, args, callee.Line()), nil
}

// parseAtom parses an expression without operators or juxtaposition.
func (p *Parser) parseAtom() (ast.Expr, error) {
	tok := p.cur
	switch tok.Type {
	case token.INT:
		p.advance()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, diag.New(diag.StageParser, diag.CodeSyntaxUnexpectedToken, tok.Line,
				"invalid integer literal %q", tok.Literal)
		}
		return ast.NewIntLit(v, tok.Line), nil

	case token.FLOAT:
		p.advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, diag.New(diag.StageParser, diag.CodeSyntaxUnexpectedToken, tok.Line,
				"invalid float literal %q", tok.Literal)
		}
		return ast.NewFloatLit(v, tok.Line), nil

	case token.MINUS:
		// Negative numeric literal; binary minus never reaches here.
		p.advance()
		switch p.cur.Type {
		case token.INT:
			lit := p.cur
			p.advance()
			v, err := strconv.ParseInt(lit.Literal, 10, 64)
			if err != nil {
				return nil, p.errUnexpected("integer literal")
			}
			return ast.NewIntLit(-v, tok.Line), nil
		case token.FLOAT:
			lit := p.cur
			p.advance()
			v, err := strconv.ParseFloat(lit.Literal, 64)
			if err != nil {
				return nil, p.errUnexpected("float literal")
			}
			return ast.NewFloatLit(-v, tok.Line), nil
		default:
			return nil, p.errUnexpected("numeric literal after '-'")
		}

	case token.STRING:
		p.advance()
		return ast.NewStringLit(tok.Literal, tok.Line), nil

	case token.CHARLIST:
		p.advance()
		return ast.NewCharListLit(tok.Literal, tok.Line), nil

	case token.ATOM:
		p.advance()
		return ast.NewAtomLit(tok.Literal, tok.Line), nil

	case token.TRUE, token.FALSE:
		p.advance()
		return ast.NewBoolLit(tok.Type == token.TRUE, tok.Line), nil

	case token.UNDERSCORE:
		p.advance()
		return ast.NewWildcardExpr(tok.Line), nil

	case token.IDENT:
		p.advance()
		return ast.NewIdent(tok.Literal, tok.Line), nil

	case token.CTOR:
		p.advance()
		var arg ast.Expr
		if atomStart(p.cur.Type) {
			var err error
			arg, err = p.parseAtom()
			if err != nil {
				return nil, err
			}
		}
		return ast.NewCtorExpr(tok.Literal, arg, tok.Line), nil

	case token.LPAREN:
		return p.parseParen()

	case token.LBRACKET:
		return p.parseList()

	case token.MAPOPEN:
		return p.parseMap()

	case token.BINOPEN:
		return p.parseBinary()

	default:
		return nil, p.errUnexpected("expression")
	}
}

// parseParen parses (), a grouped expression, or a tuple. A single
// parenthesized element is grouping, never an arity-1 tuple.
func (p *Parser) parseParen() (ast.Expr, error) {
	open, err := p.expect(token.LPAREN)
	if err != nil {
		return nil, err
	}
	if p.cur.Type == token.RPAREN {
		p.advance()
		return ast.NewUnitLit(open.Line), nil
	}

	first, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.COMMA {
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return first, nil
	}

	elems := []ast.Expr{first}
	for p.cur.Type == token.COMMA {
		p.advance()
		next, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return ast.NewTupleExpr(elems, open.Line), nil
}

// parseList parses [] or [e, e, e].
func (p *Parser) parseList() (ast.Expr, error) {
	open, err := p.expect(token.LBRACKET)
	if err != nil {
		return nil, err
	}
	var elems []ast.Expr
	if p.cur.Type != token.RBRACKET {
		for {
			e, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.cur.Type != token.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return ast.NewListExpr(elems, open.Line), nil
}

// parseMap parses #{k => v, ...}.
func (p *Parser) parseMap() (ast.Expr, error) {
	open, err := p.expect(token.MAPOPEN)
	if err != nil {
		return nil, err
	}
	var pairs []ast.MapPair
	if p.cur.Type != token.RBRACE {
		for {
			key, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.FATARROW); err != nil {
				return nil, err
			}
			val, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, ast.MapPair{Key: key, Val: val})
			if p.cur.Type != token.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewMapExpr(pairs, open.Line), nil
}

// parseBinary parses <<seg, seg: attr=val, attr=val>>. After a comma, an
// identifier followed by '=' continues the current segment's attribute
// list; anything else starts a new segment.
func (p *Parser) parseBinary() (ast.Expr, error) {
	open, err := p.expect(token.BINOPEN)
	if err != nil {
		return nil, err
	}
	var segments []*ast.BinSegment
	for p.cur.Type != token.BINCLOSE {
		value, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		seg := &ast.BinSegment{Value: value}
		if p.cur.Type == token.COLON {
			p.advance()
			if err := p.parseBinAttrs(seg); err != nil {
				return nil, err
			}
		}
		segments = append(segments, seg)
		if p.cur.Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.BINCLOSE); err != nil {
		return nil, err
	}
	return ast.NewBinaryExpr(segments, open.Line), nil
}

func (p *Parser) parseBinAttrs(seg *ast.BinSegment) error {
	for {
		if p.cur.Type != token.IDENT && p.cur.Type != token.TYPE {
			return p.errUnexpected("segment attribute")
		}
		name := p.cur.Literal
		p.advance()
		if _, err := p.expect(token.ASSIGN); err != nil {
			return err
		}
		value := p.cur
		switch name {
		case "type":
			if value.Type != token.IDENT {
				return p.errUnexpected("segment type name")
			}
			seg.Type = value.Literal
		case "size", "unit":
			if value.Type != token.INT {
				return p.errUnexpected("integer attribute value")
			}
			n, err := strconv.Atoi(value.Literal)
			if err != nil {
				return p.errUnexpected("integer attribute value")
			}
			if name == "size" {
				seg.Size = n
			} else {
				seg.Unit = n
			}
		case "end":
			if value.Type != token.IDENT {
				return p.errUnexpected("endianness")
			}
			seg.Endian = value.Literal
		case "sign":
			if value.Type != token.TRUE && value.Type != token.FALSE {
				return p.errUnexpected("boolean attribute value")
			}
			seg.Signed = value.Type == token.TRUE
		default:
			return diag.New(diag.StageParser, diag.CodeSyntaxUnexpectedToken, value.Line,
				"unknown segment attribute %q", name)
		}
		p.advance()

		// Another attribute only if 'name =' follows the comma.
		if p.cur.Type == token.COMMA &&
			(p.peek.Type == token.IDENT || p.peek.Type == token.TYPE) &&
			p.lookahead(2).Type == token.ASSIGN {
			p.advance()
			continue
		}
		return nil
	}
}

// parseLet parses both binding shapes: let x = e in e, and
// let f p1 p2 = e in e. Nested lets stack right-to-left.
func (p *Parser) parseLet() (ast.Expr, error) {
	letTok, err := p.expect(token.LET)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	if p.cur.Type == token.ASSIGN {
		p.advance()
		value, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.IN); err != nil {
			return nil, err
		}
		body, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		return ast.NewLetExpr(name.Literal, value, body, letTok.Line), nil
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return nil, p.errUnexpected("'=' or parameters")
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	fnBody, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	fun := ast.NewFunDecl(name.Literal, params, fnBody, letTok.Line)
	return ast.NewLetFunExpr(fun, body, letTok.Line), nil
}

// parseMatch parses: match scrutinee with clause | clause.
func (p *Parser) parseMatch() (ast.Expr, error) {
	matchTok, err := p.expect(token.MATCH)
	if err != nil {
		return nil, err
	}
	scrutinee, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WITH); err != nil {
		return nil, err
	}
	clauses, err := p.parseClauses()
	if err != nil {
		return nil, err
	}
	return ast.NewMatchExpr(scrutinee, clauses, matchTok.Line), nil
}

// parseReceive parses: receive with clause | clause.
func (p *Parser) parseReceive() (ast.Expr, error) {
	recvTok, err := p.expect(token.RECEIVE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WITH); err != nil {
		return nil, err
	}
	clauses, err := p.parseClauses()
	if err != nil {
		return nil, err
	}
	return ast.NewReceiveExpr(clauses, recvTok.Line), nil
}

// parseClauses parses one or more '|'-separated clauses, each of the form
// pattern [, guard] -> result.
func (p *Parser) parseClauses() ([]*ast.Clause, error) {
	var clauses []*ast.Clause
	for {
		line := p.cur.Line
		pattern, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		var guard ast.Expr
		if p.cur.Type == token.COMMA {
			p.advance()
			guard, err = p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.ARROW); err != nil {
			return nil, err
		}
		result, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, ast.NewClause(pattern, guard, result, line))

		if p.cur.Type != token.PIPE {
			return clauses, nil
		}
		p.advance()
	}
}

// parsePattern parses a pattern: literal and structural forms, wildcard,
// binding symbols, constructors, and cons chains.
func (p *Parser) parsePattern() (ast.Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == token.CONS {
		consTok := p.cur
		p.advance()
		tail, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		return ast.NewConsExpr(left, tail, consTok.Line), nil
	}
	return left, nil
}

// parseSpawn parses: spawn f arg ...
func (p *Parser) parseSpawn() (ast.Expr, error) {
	spawnTok, err := p.expect(token.SPAWN)
	if err != nil {
		return nil, err
	}
	fun, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	var args []ast.Expr
	for atomStart(p.cur.Type) {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return ast.NewSpawnExpr(fun, args, spawnTok.Line), nil
}

// parseSend parses: send msg target.
func (p *Parser) parseSend() (ast.Expr, error) {
	sendTok, err := p.expect(token.SEND)
	if err != nil {
		return nil, err
	}
	msg, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	target, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return ast.NewSendExpr(msg, target, sendTok.Line), nil
}

// parseFFI parses: beam :mod :fn [args] with clause | clause.
func (p *Parser) parseFFI() (ast.Expr, error) {
	beamTok, err := p.expect(token.BEAM)
	if err != nil {
		return nil, err
	}
	mod, err := p.expect(token.ATOM)
	if err != nil {
		return nil, err
	}
	fn, err := p.expect(token.ATOM)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACKET); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if p.cur.Type != token.RBRACKET {
		for {
			arg, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Type != token.COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WITH); err != nil {
		return nil, err
	}
	clauses, err := p.parseClauses()
	if err != nil {
		return nil, err
	}
	return ast.NewFFIExpr(mod.Literal, fn.Literal, args, clauses, beamTok.Line), nil
}
