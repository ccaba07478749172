/*
Copyright © 2022 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package parser implements the Rat24S recursive-descent parser and its
// embedded translation scheme (spec.md §4.3): one token of lookahead,
// match/advance, and code generation driven inline with parsing.
package parser

import (
	"fmt"
	"strconv"

	"github.com/pdxjjb/rat24s/internal/codegen"
	"github.com/pdxjjb/rat24s/internal/config"
	"github.com/pdxjjb/rat24s/internal/diag"
	"github.com/pdxjjb/rat24s/internal/lexer"
	"github.com/pdxjjb/rat24s/internal/semck"
	"github.com/pdxjjb/rat24s/internal/symtab"
	"github.com/pdxjjb/rat24s/internal/token"
)

// relops is the fixed set of relational operator spellings spec.md §6
// defines; "=>" means >= and there is no ">=" spelling (spec.md §9).
var relops = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, "=>": true,
}

// Parser is a bag of parse-time state: the current lookahead token, the
// symbol table and instruction table code generation drives, and a
// derivation-log sink. GenerateCode selects between full code generation
// and the syntax-only mode the CLI's -s/--syntax exposes.
type Parser struct {
	lx           *lexer.Lexer
	cfg          *config.Config
	cur          token.Token
	syms         *symtab.Table
	checker      *semck.Checker
	code         *codegen.Table
	sink         Sink
	GenerateCode bool
}

// New returns a Parser reading from lx. sink receives the derivation log;
// pass &MemorySink{} or NullSink{} if the caller doesn't need one.
func New(lx *lexer.Lexer, cfg *config.Config, sink Sink, generateCode bool) *Parser {
	syms := symtab.New(cfg.SymbolBase)
	p := &Parser{
		lx:           lx,
		cfg:          cfg,
		syms:         syms,
		checker:      semck.New(syms),
		code:         &codegen.Table{},
		sink:         sink,
		GenerateCode: generateCode,
	}
	p.advance()
	return p
}

// Symbols returns the symbol table built up during Parse, for the
// symbol-table appendix report.
func (p *Parser) Symbols() *symtab.Table { return p.syms }

// Instructions returns the emitted listing, for the assembly report.
func (p *Parser) Instructions() []codegen.Instruction {
	if p.code == nil {
		return nil
	}
	return p.code.Instructions()
}

func (p *Parser) advance() {
	p.cur = p.lx.Next()
}

func (p *Parser) record(rule string) {
	p.sink.Record(Entry{Rule: rule, Lexeme: p.cur.Lexeme, Kind: p.cur.Kind.String()})
}

// match consumes the current token if its lexeme equals want, otherwise
// returns a *diag.SyntaxError carrying "expected X, found Y" (spec.md §7).
func (p *Parser) match(want string) error {
	if p.cur.IsEOF() {
		return &diag.SyntaxError{Message: "Encountered End of File unexpectedly", Line: p.cur.Line}
	}
	if p.cur.Lexeme != want {
		return &diag.SyntaxError{Expected: want, Found: p.cur.Lexeme, Line: p.cur.Line}
	}
	p.advance()
	return nil
}

// Parse runs the full <Rat24S> production: $ <OptFunctionDefs> $
// <OptDeclList> $ <StatementList> $, then requires end of input and an
// empty jump stack.
func (p *Parser) Parse() error {
	if p.cur.IsEOF() {
		return &diag.SyntaxError{Message: "The input is empty", Line: 1}
	}
	p.record("Rat24S")
	if err := p.match("$"); err != nil {
		return err
	}
	if err := p.parseOptFunctionDefs(); err != nil {
		return err
	}
	if err := p.match("$"); err != nil {
		return err
	}
	if err := p.parseOptDeclList(); err != nil {
		return err
	}
	if err := p.match("$"); err != nil {
		return err
	}
	if err := p.parseStatementList(map[string]bool{"$": true}); err != nil {
		return err
	}
	if err := p.match("$"); err != nil {
		return err
	}
	if !p.cur.IsEOF() {
		return &diag.SyntaxError{Message: "Expected end of file, found more input", Line: p.cur.Line}
	}
	if p.GenerateCode && !p.code.JumpStackEmpty() {
		return fmt.Errorf("internal error: jump stack not empty after parse")
	}
	return nil
}

// ===== Function definitions (SPEC_FULL.md supplemental feature 2) =====

func (p *Parser) parseOptFunctionDefs() error {
	p.record("OptFunctionDefs")
	for p.cur.Lexeme == "function" {
		if err := p.parseFunction(); err != nil {
			return err
		}
	}
	return nil
}

// parseFunction parses a function header and body for syntax and scope
// checking only. Parameters and locals live in their own symbol-table
// segment; no CALL/RET opcodes are emitted, since spec.md §3's opcode
// list has none (documented in SPEC_FULL.md, not a silent gap).
func (p *Parser) parseFunction() error {
	p.record("Function")
	if err := p.match("function"); err != nil {
		return err
	}
	if p.cur.Kind != token.Identifier {
		return &diag.SyntaxError{Expected: "identifier", Found: p.cur.Lexeme, Line: p.cur.Line}
	}
	p.advance()
	if err := p.match("("); err != nil {
		return err
	}

	savedSyms, savedChecker, savedCode := p.syms, p.checker, p.code
	p.syms = symtab.New(p.cfg.SymbolBase)
	p.checker = semck.New(p.syms)
	p.code = &codegen.Table{} // function bodies never emit to the outer listing
	restore := func() {
		p.syms, p.checker, p.code = savedSyms, savedChecker, savedCode
	}

	if err := p.parseOptParamList(); err != nil {
		restore()
		return err
	}
	if err := p.match(")"); err != nil {
		restore()
		return err
	}
	if err := p.parseOptDeclList(); err != nil {
		restore()
		return err
	}
	if err := p.parseBody(); err != nil {
		restore()
		return err
	}
	restore()
	return nil
}

func (p *Parser) parseOptParamList() error {
	p.record("OptParameterList")
	if p.cur.Kind != token.Identifier {
		return nil // epsilon
	}
	return p.parseParamList()
}

func (p *Parser) parseParamList() error {
	p.record("ParameterList")
	if err := p.parseParameter(); err != nil {
		return err
	}
	for p.cur.Lexeme == "," {
		p.advance()
		if err := p.parseParameter(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseParameter() error {
	p.record("Parameter")
	ids, err := p.parseIDs()
	if err != nil {
		return err
	}
	typ, err := p.parseQualifier()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := p.syms.Add(id.Lexeme, typ); err != nil {
			return &diag.SemanticError{Message: "Duplicate identifier: " + id.Lexeme, Line: id.Line}
		}
	}
	return nil
}

func (p *Parser) parseBody() error {
	p.record("Body")
	if err := p.match("{"); err != nil {
		return err
	}
	if err := p.parseStatementList(map[string]bool{"}": true}); err != nil {
		return err
	}
	return p.match("}")
}

// ===== Declarations =====

func (p *Parser) parseOptDeclList() error {
	p.record("OptDeclarationList")
	for p.cur.Lexeme == "integer" || p.cur.Lexeme == "boolean" || p.cur.Lexeme == "real" {
		if err := p.parseDeclaration(); err != nil {
			return err
		}
		if err := p.match(";"); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseDeclaration() error {
	p.record("Declaration")
	typ, err := p.parseQualifier()
	if err != nil {
		return err
	}
	ids, err := p.parseIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := p.syms.Add(id.Lexeme, typ); err != nil {
			return &diag.SemanticError{Message: "Duplicate identifier: " + id.Lexeme, Line: id.Line}
		}
	}
	return nil
}

// parseQualifier rejects real immediately: the code generator has no
// real-number opcodes (spec.md §4.5), so a real qualifier is an error at
// the point it's recognized, before any of its identifiers are declared.
func (p *Parser) parseQualifier() (symtab.Type, error) {
	p.record("Qualifier")
	switch p.cur.Lexeme {
	case "integer":
		p.advance()
		return symtab.Integer, nil
	case "boolean":
		p.advance()
		return symtab.Boolean, nil
	case "real":
		return 0, &diag.SemanticError{Message: "Real data type is not allowed", Line: p.cur.Line}
	default:
		return 0, &diag.SyntaxError{Message: "Qualifier is missing", Line: p.cur.Line}
	}
}

// parseIDs collects a comma-separated identifier list, used by both
// <Declaration> and <Scan>.
func (p *Parser) parseIDs() ([]token.Token, error) {
	p.record("IDs")
	if p.cur.Kind != token.Identifier {
		return nil, &diag.SyntaxError{Expected: "identifier", Found: p.cur.Lexeme, Line: p.cur.Line}
	}
	ids := []token.Token{p.cur}
	p.advance()
	for p.cur.Lexeme == "," {
		p.advance()
		if p.cur.Kind != token.Identifier {
			return nil, &diag.SyntaxError{Expected: "identifier", Found: p.cur.Lexeme, Line: p.cur.Line}
		}
		ids = append(ids, p.cur)
		p.advance()
	}
	return ids, nil
}

// ===== Statements =====

func (p *Parser) parseStatementList(stop map[string]bool) error {
	p.record("StatementList")
	for {
		if p.cur.IsEOF() {
			return &diag.SyntaxError{Message: "Encountered End of File unexpectedly", Line: p.cur.Line}
		}
		if stop[p.cur.Lexeme] {
			return nil
		}
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
}

func (p *Parser) parseStatement() error {
	p.record("Statement")
	switch {
	case p.cur.Lexeme == "{":
		return p.parseCompound()
	case p.cur.Kind == token.Identifier:
		return p.parseAssign()
	case p.cur.Lexeme == "if":
		return p.parseIf()
	case p.cur.Lexeme == "while":
		return p.parseWhile()
	case p.cur.Lexeme == "print":
		return p.parsePrint()
	case p.cur.Lexeme == "scan":
		return p.parseScan()
	case p.cur.Lexeme == "return":
		return p.parseReturn()
	default:
		return &diag.SyntaxError{Message: "Statement is missing", Line: p.cur.Line}
	}
}

func (p *Parser) parseCompound() error {
	p.record("Compound")
	if err := p.match("{"); err != nil {
		return err
	}
	if err := p.parseStatementList(map[string]bool{"}": true}); err != nil {
		return err
	}
	return p.match("}")
}

// parseAssign implements <Identifier> = <Expression> ; per spec.md §4.3:
// parse the RHS, collect its leaf types, and require the LHS's declared
// type to be one of them before emitting POPM.
func (p *Parser) parseAssign() error {
	p.record("Assign")
	name := p.cur.Lexeme
	line := p.cur.Line
	if !p.syms.Has(name) {
		return &diag.SemanticError{Message: "Identifier not found: " + name, Line: line}
	}
	lhsType, _ := p.syms.Type(name)
	p.advance()
	if err := p.match("="); err != nil {
		return err
	}
	leafTypes := map[symtab.Type]bool{}
	if _, err := p.parseExpression(leafTypes); err != nil {
		return err
	}
	if !leafTypes[lhsType] {
		return &diag.SemanticError{
			Message: fmt.Sprintf("Data types do not match; cannot assign to %s (%s)", name, lhsType),
			Line:    line,
		}
	}
	if err := p.match(";"); err != nil {
		return err
	}
	if p.GenerateCode {
		addr, _ := p.syms.Address(name)
		p.code.Emit(codegen.POPM, codegen.Imm(addr))
	}
	return nil
}

// parseIf implements the back-patching protocol of spec.md §4.3: the
// condition leaves a pending JUMP0 on the jump stack; endif resolves it
// to a trailing LABEL, while else first redirects it to fall into the
// false branch and pushes its own pending JUMP to be resolved after the
// false branch's endif.
func (p *Parser) parseIf() error {
	p.record("If")
	if err := p.match("if"); err != nil {
		return err
	}
	if err := p.match("("); err != nil {
		return err
	}
	if err := p.parseCondition(); err != nil {
		return err
	}
	if err := p.match(")"); err != nil {
		return err
	}
	if err := p.parseStatement(); err != nil {
		return err
	}
	return p.parseIfPrime()
}

func (p *Parser) parseIfPrime() error {
	p.record("IfPrime")
	switch p.cur.Lexeme {
	case "endif":
		p.advance()
		if !p.GenerateCode {
			return nil
		}
		label := p.code.Emit(codegen.LABEL, codegen.NoOperand)
		return p.code.BackPatch(label)
	case "else":
		p.advance()
		var jmp int
		if p.GenerateCode {
			jmp = p.code.Emit(codegen.JUMP, codegen.Imm(0))
			if err := p.code.BackPatch(p.code.NextAddress()); err != nil {
				return err
			}
			p.code.PushJump(jmp)
		}
		if err := p.parseStatement(); err != nil {
			return err
		}
		if err := p.match("endif"); err != nil {
			return err
		}
		if !p.GenerateCode {
			return nil
		}
		label := p.code.Emit(codegen.LABEL, codegen.NoOperand)
		return p.code.BackPatch(label)
	default:
		return &diag.SyntaxError{Expected: "endif or else", Found: p.cur.Lexeme, Line: p.cur.Line}
	}
}

// parseWhile implements spec.md §4.3: a LABEL marks the loop top before
// the condition is evaluated (so the back-edge re-tests it), and the
// condition's JUMP0 is patched to the instruction right after the
// closing JUMP back to that LABEL.
func (p *Parser) parseWhile() error {
	p.record("While")
	if err := p.match("while"); err != nil {
		return err
	}
	var top int
	if p.GenerateCode {
		top = p.code.Emit(codegen.LABEL, codegen.NoOperand)
	}
	if err := p.match("("); err != nil {
		return err
	}
	if err := p.parseCondition(); err != nil {
		return err
	}
	if err := p.match(")"); err != nil {
		return err
	}
	if err := p.parseStatement(); err != nil {
		return err
	}
	if err := p.match("endwhile"); err != nil {
		return err
	}
	if !p.GenerateCode {
		return nil
	}
	p.code.Emit(codegen.JUMP, codegen.Imm(top))
	return p.code.BackPatch(p.code.NextAddress())
}

func (p *Parser) parsePrint() error {
	p.record("Print")
	if err := p.match("print"); err != nil {
		return err
	}
	if err := p.match("("); err != nil {
		return err
	}
	leafTypes := map[symtab.Type]bool{}
	if _, err := p.parseExpression(leafTypes); err != nil {
		return err
	}
	if err := p.match(")"); err != nil {
		return err
	}
	if err := p.match(";"); err != nil {
		return err
	}
	if p.GenerateCode {
		p.code.Emit(codegen.SOUT, codegen.NoOperand)
	}
	return nil
}

func (p *Parser) parseScan() error {
	p.record("Scan")
	if err := p.match("scan"); err != nil {
		return err
	}
	if err := p.match("("); err != nil {
		return err
	}
	ids, err := p.parseIDs()
	if err != nil {
		return err
	}
	if err := p.match(")"); err != nil {
		return err
	}
	if err := p.match(";"); err != nil {
		return err
	}
	for _, id := range ids {
		if !p.syms.Has(id.Lexeme) {
			return &diag.SemanticError{Message: "Identifier not found: " + id.Lexeme, Line: id.Line}
		}
		if p.GenerateCode {
			addr, _ := p.syms.Address(id.Lexeme)
			p.code.Emit(codegen.SIN, codegen.NoOperand)
			p.code.Emit(codegen.POPM, codegen.Imm(addr))
		}
	}
	return nil
}

// parseReturn parses return; or return <Expression>; for type checking
// only; no RET opcode is emitted (see parseFunction's doc comment).
func (p *Parser) parseReturn() error {
	p.record("Return")
	if err := p.match("return"); err != nil {
		return err
	}
	if p.cur.Lexeme != ";" {
		leafTypes := map[symtab.Type]bool{}
		if _, err := p.parseExpression(leafTypes); err != nil {
			return err
		}
	}
	return p.match(";")
}

// ===== Conditions and expressions =====

func (p *Parser) parseCondition() error {
	p.record("Condition")
	leafTypes := map[symtab.Type]bool{}
	if _, err := p.parseExpression(leafTypes); err != nil {
		return err
	}
	if !relops[p.cur.Lexeme] {
		return &diag.SyntaxError{Message: "Relational operator is missing", Line: p.cur.Line}
	}
	relop := p.cur.Lexeme
	p.advance()
	if _, err := p.parseExpression(leafTypes); err != nil {
		return err
	}
	if p.GenerateCode {
		p.code.Emit(codegen.RelopOpcodeByLexeme[relop], codegen.NoOperand)
		jmp := p.code.Emit(codegen.JUMP0, codegen.Imm(0))
		p.code.PushJump(jmp)
	}
	return nil
}

// typeToken synthesizes a zero-lexeme token carrying only a resolved
// type, so internal/semck's token-shaped API can validate arithmetic
// between compound sub-expressions, not just bare literals/identifiers.
func typeToken(t symtab.Type) token.Token {
	switch t {
	case symtab.Boolean:
		return token.Token{Kind: token.Boolean}
	case symtab.RealType:
		return token.Token{Kind: token.Real}
	default:
		return token.Token{Kind: token.Integer}
	}
}

func (p *Parser) parseExpression(leafTypes map[symtab.Type]bool) (token.Token, error) {
	p.record("Expression")
	tok, err := p.parseTerm(leafTypes)
	if err != nil {
		return token.Token{}, err
	}
	return p.parseExpressionPrime(leafTypes, tok)
}

func (p *Parser) parseExpressionPrime(leafTypes map[symtab.Type]bool, prev token.Token) (token.Token, error) {
	p.record("ExpressionPrime")
	for p.cur.Lexeme == "+" || p.cur.Lexeme == "-" {
		op := p.cur.Lexeme
		line := p.cur.Line
		p.advance()
		cur, err := p.parseTerm(leafTypes)
		if err != nil {
			return token.Token{}, err
		}
		if err := p.checker.ValidateArithmeticOperation(prev, cur); err != nil {
			return token.Token{}, &diag.SemanticError{Message: err.Error(), Line: line}
		}
		if p.GenerateCode {
			p.code.Emit(codegen.ArithOpcodeByLexeme[op], codegen.NoOperand)
		}
		prev = typeToken(symtab.Integer)
	}
	return prev, nil
}

func (p *Parser) parseTerm(leafTypes map[symtab.Type]bool) (token.Token, error) {
	p.record("Term")
	tok, err := p.parseFactor(leafTypes)
	if err != nil {
		return token.Token{}, err
	}
	return p.parseTermPrime(leafTypes, tok)
}

func (p *Parser) parseTermPrime(leafTypes map[symtab.Type]bool, prev token.Token) (token.Token, error) {
	p.record("TermPrime")
	for p.cur.Lexeme == "*" || p.cur.Lexeme == "/" {
		op := p.cur.Lexeme
		line := p.cur.Line
		p.advance()
		cur, err := p.parseFactor(leafTypes)
		if err != nil {
			return token.Token{}, err
		}
		if err := p.checker.ValidateArithmeticOperation(prev, cur); err != nil {
			return token.Token{}, &diag.SemanticError{Message: err.Error(), Line: line}
		}
		if p.GenerateCode {
			p.code.Emit(codegen.ArithOpcodeByLexeme[op], codegen.NoOperand)
		}
		prev = typeToken(symtab.Integer)
	}
	return prev, nil
}

// parseFactor implements <Factor> -> - <Primary> | <Primary>. A leading
// '-' is only meaningful ahead of an integer literal: the opcode set has
// no unary negate, so spec.md §4.3's "carried down from <Factor>" folds
// the sign directly into the PUSHI immediate (see parsePrimary).
func (p *Parser) parseFactor(leafTypes map[symtab.Type]bool) (token.Token, error) {
	p.record("Factor")
	negate := false
	if p.cur.Lexeme == "-" {
		negate = true
		p.advance()
		if p.cur.Kind != token.Integer {
			return token.Token{}, &diag.SyntaxError{Expected: "integer literal after '-'", Found: p.cur.Lexeme, Line: p.cur.Line}
		}
	}
	return p.parsePrimary(leafTypes, negate)
}

func (p *Parser) parsePrimary(leafTypes map[symtab.Type]bool, negate bool) (token.Token, error) {
	p.record("Primary")
	switch {
	case p.cur.Lexeme == "(":
		p.advance()
		tok, err := p.parseExpression(leafTypes)
		if err != nil {
			return token.Token{}, err
		}
		if err := p.match(")"); err != nil {
			return token.Token{}, err
		}
		return tok, nil

	case p.cur.Kind == token.Identifier:
		name := p.cur.Lexeme
		line := p.cur.Line
		if !p.syms.Has(name) {
			return token.Token{}, &diag.SemanticError{Message: "Identifier not found: " + name, Line: line}
		}
		typ, _ := p.syms.Type(name)
		addr, _ := p.syms.Address(name)
		p.advance()
		if p.GenerateCode {
			p.code.Emit(codegen.PUSHM, codegen.Imm(addr))
		}
		leafTypes[typ] = true
		return typeToken(typ), nil

	case p.cur.Kind == token.Integer:
		n, _ := strconv.Atoi(p.cur.Lexeme)
		if negate {
			n = -n
		}
		p.advance()
		if p.GenerateCode {
			p.code.Emit(codegen.PUSHI, codegen.Imm(n))
		}
		leafTypes[symtab.Integer] = true
		return typeToken(symtab.Integer), nil

	case p.cur.Kind == token.Real:
		return token.Token{}, &diag.SemanticError{Message: "Real data type is not allowed", Line: p.cur.Line}

	case p.cur.Kind == token.Keyword && (p.cur.Lexeme == "true" || p.cur.Lexeme == "false"):
		isTrue := p.cur.Lexeme == "true"
		p.cur = p.cur.Retag(token.Boolean) // spec.md §3: keyword retagged mid-parse
		p.advance()
		val := 0
		if isTrue {
			val = 1
		}
		if p.GenerateCode {
			p.code.Emit(codegen.PUSHI, codegen.Imm(val))
		}
		leafTypes[symtab.Boolean] = true
		return typeToken(symtab.Boolean), nil

	default:
		return token.Token{}, &diag.SyntaxError{Expected: "expression", Found: p.cur.Lexeme, Line: p.cur.Line}
	}
}
