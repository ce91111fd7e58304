package parser

import (
	"strconv"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/diag"
	"github.com/vesper-lang/vesper/internal/token"
)

// parseModuleDecl parses: module name
func (p *Parser) parseModuleDecl() (ast.Node, error) {
	mod, err := p.expect(token.MODULE)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return ast.NewModuleDecl(name.Literal, mod.Line), nil
}

// parseExportDecl parses: export f/2, g/1
func (p *Parser) parseExportDecl() (ast.Node, error) {
	exp, err := p.expect(token.EXPORT)
	if err != nil {
		return nil, err
	}

	var funs []ast.FunRef
	for {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SLASH); err != nil {
			return nil, err
		}
		arityTok, err := p.expect(token.INT)
		if err != nil {
			return nil, err
		}
		arity, err := strconv.Atoi(arityTok.Literal)
		if err != nil {
			return nil, diag.New(diag.StageParser, diag.CodeSyntaxUnexpectedToken, arityTok.Line,
				"invalid arity %q", arityTok.Literal)
		}
		funs = append(funs, ast.FunRef{Name: name.Literal, Arity: arity})

		if p.cur.Type != token.COMMA {
			break
		}
		p.advance()
	}
	return ast.NewExportDecl(funs, exp.Line), nil
}

// parseTestDecl parses: test "label" = expr
func (p *Parser) parseTestDecl() (ast.Node, error) {
	testTok, err := p.expect(token.TEST)
	if err != nil {
		return nil, err
	}
	label, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return ast.NewTestDecl(label.Literal, body, testTok.Line), nil
}

// parseFunDecl parses a top-level function definition: name p1 p2 = body.
// Nullary definitions are rejected here only; the unit parameter () is
// the documented workaround.
func (p *Parser) parseFunDecl() (ast.Node, error) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return nil, diag.New(diag.StageParser, diag.CodeSyntaxUnexpectedToken, name.Line,
			"function %q has no parameters; use the unit parameter () instead", name.Literal)
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	return ast.NewFunDecl(name.Literal, params, body, name.Line), nil
}

// parseParams consumes parameter symbols up to (not including) '='.
func (p *Parser) parseParams() ([]*ast.Param, error) {
	var params []*ast.Param
	for {
		switch p.cur.Type {
		case token.IDENT:
			params = append(params, ast.NewParam(p.cur.Literal, p.cur.Line))
			p.advance()
		case token.LPAREN:
			if p.peek.Type != token.RPAREN {
				return nil, p.errUnexpected("')' to close unit parameter")
			}
			params = append(params, ast.NewUnitParam(p.cur.Line))
			p.advance()
			p.advance()
		default:
			return params, nil
		}
	}
}

// parseTypeDecl parses: type name 'a 'b = member | member
func (p *Parser) parseTypeDecl() (ast.Node, error) {
	typeTok, err := p.expect(token.TYPE)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}

	var params []string
	for p.cur.Type == token.TYPEVAR {
		params = append(params, p.cur.Literal)
		p.advance()
	}

	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}

	var members []ast.TypeMember
	for {
		member, err := p.parseTypeMember()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
		if p.cur.Type != token.PIPE {
			break
		}
		p.advance()
	}
	return ast.NewTypeDecl(name.Literal, params, members, typeTok.Line), nil
}

// parseTypeMember parses one ADT member: a bare type reference, or an
// uppercase-initial constructor with at most one argument type.
func (p *Parser) parseTypeMember() (ast.TypeMember, error) {
	if p.cur.Type == token.CTOR {
		ctor := p.cur
		p.advance()
		var arg *ast.TypeRef
		if typeRefStart(p.cur.Type) {
			var err error
			arg, err = p.parseTypeRefAtom()
			if err != nil {
				return nil, err
			}
		}
		return ast.NewCtorMember(ctor.Literal, arg, ctor.Line), nil
	}
	return p.parseTypeRef()
}

func typeRefStart(tt token.Type) bool {
	return tt == token.IDENT || tt == token.TYPEVAR || tt == token.LPAREN
}

// parseTypeRef parses a possibly-parametric type reference: list json,
// map atom int, pair 'a 'b. Arguments are atoms; nest with parentheses.
func (p *Parser) parseTypeRef() (*ast.TypeRef, error) {
	if p.cur.Type != token.IDENT {
		return p.parseTypeRefAtom()
	}
	name := p.cur
	p.advance()

	var args []*ast.TypeRef
	for typeRefStart(p.cur.Type) {
		arg, err := p.parseTypeRefAtom()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return ast.NewTypeRef(name.Literal, args, name.Line), nil
}

// parseTypeRefAtom parses a type reference without arguments: a named
// type, a type variable, or a parenthesized tuple/grouping.
func (p *Parser) parseTypeRefAtom() (*ast.TypeRef, error) {
	switch p.cur.Type {
	case token.IDENT:
		name := p.cur
		p.advance()
		return ast.NewTypeRef(name.Literal, nil, name.Line), nil

	case token.TYPEVAR:
		tv := p.cur
		p.advance()
		return ast.NewTypeVarRef(tv.Literal, tv.Line), nil

	case token.LPAREN:
		open := p.cur
		p.advance()
		first, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != token.COMMA {
			// Simple grouping, not an arity-1 tuple.
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			return first, nil
		}
		elems := []*ast.TypeRef{first}
		for p.cur.Type == token.COMMA {
			p.advance()
			next, err := p.parseTypeRef()
			if err != nil {
				return nil, err
			}
			elems = append(elems, next)
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return ast.NewTupleTypeRef(elems, open.Line), nil

	default:
		return nil, p.errUnexpected("type reference")
	}
}
