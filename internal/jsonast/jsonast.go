// Package jsonast decodes the JSON AST a host parser produces into this
// module's internal/ast tree. Lexing and parsing Pyrinas source is an
// out-of-scope collaborator (see internal/ast's package doc); this package
// is the one boundary where that collaborator's output enters the core.
//
// Every node is a JSON object carrying a "kind" discriminant naming one of
// the concrete internal/ast types, plus that type's fields. Position
// information is optional per node ("line"/"column"); a node that omits it
// gets the zero Position, which token.Position.IsValid reports as invalid
// and diagnostics then prints without a location.
package jsonast

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/atul1503/pyrinas/internal/ast"
	"github.com/atul1503/pyrinas/internal/token"
)

// DecodeFile reads and decodes the JSON AST sidecar at path. file is the
// source path recorded on the resulting Program and used to build every
// node's Position.
func DecodeFile(path, file string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading AST file %s: %w", path, err)
	}
	return Decode(data, file)
}

// Decode parses the JSON AST already read into memory.
func Decode(data []byte, file string) (*ast.Program, error) {
	var raw struct {
		Body []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing AST JSON: %w", err)
	}

	d := &decoder{file: file}
	body := make([]ast.Stmt, 0, len(raw.Body))
	for _, item := range raw.Body {
		stmt, err := d.stmt(item)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return &ast.Program{File: file, Body: body}, nil
}

type decoder struct {
	file string
}

type posFields struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (d *decoder) pos(p posFields) token.Position {
	return token.Position{File: d.file, Line: p.Line, Column: p.Column}
}

type kindOnly struct {
	Kind string `json:"kind"`
}

func kindOf(data []byte) (string, error) {
	var k kindOnly
	if err := json.Unmarshal(data, &k); err != nil {
		return "", fmt.Errorf("decoding node kind: %w", err)
	}
	if k.Kind == "" {
		return "", fmt.Errorf("node missing \"kind\" field: %s", data)
	}
	return k.Kind, nil
}

// ---- statements ----

func (d *decoder) stmt(data []byte) (ast.Stmt, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "FunctionDef":
		return d.functionDef(data)
	case "ClassDef":
		return d.classDef(data)
	case "Pass":
		var w struct {
			posFields
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &ast.Pass{Position: d.pos(w.posFields)}, nil
	case "AnnAssign":
		return d.annAssign(data)
	case "Assign":
		return d.assign(data)
	case "ExprStmt":
		return d.exprStmt(data)
	case "If":
		return d.ifStmt(data)
	case "While":
		return d.whileStmt(data)
	case "For":
		return d.forStmt(data)
	case "Break":
		var w struct{ posFields }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &ast.Break{Position: d.pos(w.posFields)}, nil
	case "Continue":
		var w struct{ posFields }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &ast.Continue{Position: d.pos(w.posFields)}, nil
	case "Return":
		return d.returnStmt(data)
	case "Match":
		return d.matchStmt(data)
	default:
		return nil, fmt.Errorf("unknown statement kind %q", kind)
	}
}

func (d *decoder) stmts(raw []json.RawMessage) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(raw))
	for _, item := range raw {
		s, err := d.stmt(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) functionDef(data []byte) (*ast.FunctionDef, error) {
	var w struct {
		posFields
		Name       string            `json:"name"`
		Decorators []wireDecorator   `json:"decorators"`
		Params     []wireParam       `json:"params"`
		Returns    json.RawMessage   `json:"returns"`
		Body       []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding FunctionDef: %w", err)
	}
	decorators, err := d.decorators(w.Decorators)
	if err != nil {
		return nil, err
	}
	params, err := d.params(w.Params)
	if err != nil {
		return nil, err
	}
	returns, err := d.optionalAnnotation(w.Returns)
	if err != nil {
		return nil, err
	}
	body, err := d.stmts(w.Body)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDef{
		Position:   d.pos(w.posFields),
		Name:       w.Name,
		Decorators: decorators,
		Params:     params,
		Returns:    returns,
		Body:       body,
	}, nil
}

type wireDecorator struct {
	posFields
	Name string   `json:"name"`
	Args []string `json:"args"`
}

func (d *decoder) decorators(raw []wireDecorator) ([]ast.Decorator, error) {
	out := make([]ast.Decorator, len(raw))
	for i, w := range raw {
		out[i] = ast.Decorator{Position: d.pos(w.posFields), Name: w.Name, Args: w.Args}
	}
	return out, nil
}

type wireParam struct {
	posFields
	Name       string          `json:"name"`
	Annotation json.RawMessage `json:"annotation"`
}

func (d *decoder) params(raw []wireParam) ([]ast.Param, error) {
	out := make([]ast.Param, len(raw))
	for i, w := range raw {
		ann, err := d.annotation(w.Annotation)
		if err != nil {
			return nil, err
		}
		out[i] = ast.Param{Position: d.pos(w.posFields), Name: w.Name, Annotation: ann}
	}
	return out, nil
}

func (d *decoder) classDef(data []byte) (*ast.ClassDef, error) {
	var w struct {
		posFields
		Name    string             `json:"name"`
		Bases   []string           `json:"bases"`
		Fields  []wireField        `json:"fields"`
		Methods []wireMethod       `json:"methods"`
		Members []wireEnumMember   `json:"members"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding ClassDef: %w", err)
	}
	fields := make([]ast.Field, len(w.Fields))
	for i, f := range w.Fields {
		ann, err := d.annotation(f.Annotation)
		if err != nil {
			return nil, err
		}
		fields[i] = ast.Field{Position: d.pos(f.posFields), Name: f.Name, Annotation: ann}
	}
	methods := make([]ast.Method, len(w.Methods))
	for i, m := range w.Methods {
		params, err := d.params(m.Params)
		if err != nil {
			return nil, err
		}
		returns, err := d.optionalAnnotation(m.Returns)
		if err != nil {
			return nil, err
		}
		body, err := d.stmts(m.Body)
		if err != nil {
			return nil, err
		}
		methods[i] = ast.Method{Position: d.pos(m.posFields), Name: m.Name, Params: params, Returns: returns, Body: body}
	}
	members := make([]ast.EnumMember, len(w.Members))
	for i, m := range w.Members {
		members[i] = ast.EnumMember{Position: d.pos(m.posFields), Name: m.Name, Value: m.Value}
	}
	return &ast.ClassDef{
		Position: d.pos(w.posFields),
		Name:     w.Name,
		Bases:    w.Bases,
		Fields:   fields,
		Methods:  methods,
		Members:  members,
	}, nil
}

type wireField struct {
	posFields
	Name       string          `json:"name"`
	Annotation json.RawMessage `json:"annotation"`
}

type wireMethod struct {
	posFields
	Name    string            `json:"name"`
	Params  []wireParam       `json:"params"`
	Returns json.RawMessage   `json:"returns"`
	Body    []json.RawMessage `json:"body"`
}

type wireEnumMember struct {
	posFields
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (d *decoder) annAssign(data []byte) (*ast.AnnAssign, error) {
	var w struct {
		posFields
		Name       string          `json:"name"`
		Annotation json.RawMessage `json:"annotation"`
		Value      json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding AnnAssign: %w", err)
	}
	ann, err := d.annotation(w.Annotation)
	if err != nil {
		return nil, err
	}
	value, err := d.optionalExpr(w.Value)
	if err != nil {
		return nil, err
	}
	return &ast.AnnAssign{Position: d.pos(w.posFields), Name: w.Name, Annotation: ann, Value: value}, nil
}

func (d *decoder) assign(data []byte) (*ast.Assign, error) {
	var w struct {
		posFields
		Target json.RawMessage `json:"target"`
		Value  json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding Assign: %w", err)
	}
	targetExpr, err := d.expr(w.Target)
	if err != nil {
		return nil, err
	}
	target, ok := targetExpr.(ast.AssignTarget)
	if !ok {
		return nil, fmt.Errorf("Assign target is not assignable: %s", w.Target)
	}
	value, err := d.expr(w.Value)
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Position: d.pos(w.posFields), Target: target, Value: value}, nil
}

func (d *decoder) exprStmt(data []byte) (*ast.ExprStmt, error) {
	var w struct {
		posFields
		X json.RawMessage `json:"x"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding ExprStmt: %w", err)
	}
	x, err := d.expr(w.X)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Position: d.pos(w.posFields), X: x}, nil
}

func (d *decoder) ifStmt(data []byte) (*ast.If, error) {
	var w struct {
		posFields
		Test   json.RawMessage   `json:"test"`
		Body   []json.RawMessage `json:"body"`
		Orelse []json.RawMessage `json:"orelse"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding If: %w", err)
	}
	test, err := d.expr(w.Test)
	if err != nil {
		return nil, err
	}
	body, err := d.stmts(w.Body)
	if err != nil {
		return nil, err
	}
	orelse, err := d.stmts(w.Orelse)
	if err != nil {
		return nil, err
	}
	return &ast.If{Position: d.pos(w.posFields), Test: test, Body: body, Orelse: orelse}, nil
}

func (d *decoder) whileStmt(data []byte) (*ast.While, error) {
	var w struct {
		posFields
		Test json.RawMessage   `json:"test"`
		Body []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding While: %w", err)
	}
	test, err := d.expr(w.Test)
	if err != nil {
		return nil, err
	}
	body, err := d.stmts(w.Body)
	if err != nil {
		return nil, err
	}
	return &ast.While{Position: d.pos(w.posFields), Test: test, Body: body}, nil
}

func (d *decoder) forStmt(data []byte) (*ast.For, error) {
	var w struct {
		posFields
		Target string            `json:"target"`
		Iter   json.RawMessage   `json:"iter"`
		Body   []json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding For: %w", err)
	}
	iterExpr, err := d.expr(w.Iter)
	if err != nil {
		return nil, err
	}
	iter, ok := iterExpr.(*ast.Call)
	if !ok {
		return nil, fmt.Errorf("For.iter must be a range(...) call, got %s", w.Iter)
	}
	body, err := d.stmts(w.Body)
	if err != nil {
		return nil, err
	}
	return &ast.For{Position: d.pos(w.posFields), Target: w.Target, Iter: iter, Body: body}, nil
}

func (d *decoder) returnStmt(data []byte) (*ast.Return, error) {
	var w struct {
		posFields
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding Return: %w", err)
	}
	value, err := d.optionalExpr(w.Value)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Position: d.pos(w.posFields), Value: value}, nil
}

func (d *decoder) matchStmt(data []byte) (*ast.Match, error) {
	var w struct {
		posFields
		Subject json.RawMessage `json:"subject"`
		Cases   []wireMatchCase `json:"cases"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding Match: %w", err)
	}
	subject, err := d.expr(w.Subject)
	if err != nil {
		return nil, err
	}
	cases := make([]ast.MatchCase, len(w.Cases))
	for i, c := range w.Cases {
		body, err := d.stmts(c.Body)
		if err != nil {
			return nil, err
		}
		cases[i] = ast.MatchCase{Position: d.pos(c.posFields), Ctor: c.Ctor, Binding: c.Binding, Body: body}
	}
	return &ast.Match{Position: d.pos(w.posFields), Subject: subject, Cases: cases}, nil
}

type wireMatchCase struct {
	posFields
	Ctor    string            `json:"ctor"`
	Binding string            `json:"binding"`
	Body    []json.RawMessage `json:"body"`
}

// ---- expressions ----

func (d *decoder) optionalExpr(data json.RawMessage) (ast.Expr, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	return d.expr(data)
}

func (d *decoder) expr(data []byte) (ast.Expr, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Name":
		var w struct {
			posFields
			Ident string `json:"ident"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &ast.Name{Position: d.pos(w.posFields), Ident: w.Ident}, nil
	case "Constant":
		var w struct {
			posFields
			Value interface{} `json:"value"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &ast.Constant{Position: d.pos(w.posFields), Value: normalizeConstant(w.Value)}, nil
	case "BinOp":
		var w struct {
			posFields
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		op, ok := binOpKinds[w.Op]
		if !ok {
			return nil, fmt.Errorf("unknown BinOp operator %q", w.Op)
		}
		left, err := d.expr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.expr(w.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Position: d.pos(w.posFields), Op: op, Left: left, Right: right}, nil
	case "Compare":
		var w struct {
			posFields
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		op, ok := compareOpKinds[w.Op]
		if !ok {
			return nil, fmt.Errorf("unknown Compare operator %q", w.Op)
		}
		left, err := d.expr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.expr(w.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Compare{Position: d.pos(w.posFields), Op: op, Left: left, Right: right}, nil
	case "BoolOp":
		var w struct {
			posFields
			Op     string            `json:"op"`
			Values []json.RawMessage `json:"values"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		op := ast.And
		if w.Op == "or" {
			op = ast.Or
		}
		values := make([]ast.Expr, len(w.Values))
		for i, v := range w.Values {
			e, err := d.expr(v)
			if err != nil {
				return nil, err
			}
			values[i] = e
		}
		return &ast.BoolOp{Position: d.pos(w.posFields), Op: op, Values: values}, nil
	case "UnaryOp":
		var w struct {
			posFields
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		op, ok := unaryOpKinds[w.Op]
		if !ok {
			return nil, fmt.Errorf("unknown UnaryOp operator %q", w.Op)
		}
		operand, err := d.expr(w.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Position: d.pos(w.posFields), Op: op, Operand: operand}, nil
	case "Call":
		var w struct {
			posFields
			Func json.RawMessage   `json:"func"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		fn, err := d.expr(w.Func)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, len(w.Args))
		for i, a := range w.Args {
			e, err := d.expr(a)
			if err != nil {
				return nil, err
			}
			args[i] = e
		}
		return &ast.Call{Position: d.pos(w.posFields), Func: fn, Args: args}, nil
	case "Attribute":
		var w struct {
			posFields
			Value json.RawMessage `json:"value"`
			Attr  string          `json:"attr"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		value, err := d.expr(w.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Attribute{Position: d.pos(w.posFields), Value: value, Attr: w.Attr}, nil
	case "Subscript":
		var w struct {
			posFields
			Value json.RawMessage `json:"value"`
			Index json.RawMessage `json:"index"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		value, err := d.expr(w.Value)
		if err != nil {
			return nil, err
		}
		index, err := d.expr(w.Index)
		if err != nil {
			return nil, err
		}
		return &ast.Subscript{Position: d.pos(w.posFields), Value: value, Index: index}, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", kind)
	}
}

// normalizeConstant folds encoding/json's float64-for-every-number decoding
// back into Go's int where the source literal had no fractional part,
// since ast.Constant distinguishes int from float64 by dynamic type.
func normalizeConstant(v interface{}) interface{} {
	f, ok := v.(float64)
	if !ok {
		return v
	}
	if i := int(f); float64(i) == f {
		return i
	}
	return f
}

var binOpKinds = map[string]ast.BinOpKind{
	"+": ast.Add, "-": ast.Sub, "*": ast.Mul, "/": ast.Div, "%": ast.Mod,
}

var compareOpKinds = map[string]ast.CompareOpKind{
	"==": ast.Eq, "!=": ast.NotEq, "<": ast.Lt, "<=": ast.LtE, ">": ast.Gt, ">=": ast.GtE,
}

var unaryOpKinds = map[string]ast.UnaryOpKind{
	"not": ast.Not, "-": ast.USub, "+": ast.UAdd,
}

// ---- type annotations ----

func (d *decoder) optionalAnnotation(data json.RawMessage) (ast.TypeAnnotation, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	return d.annotation(data)
}

func (d *decoder) annotation(data []byte) (ast.TypeAnnotation, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Name":
		var w struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return ast.NameAnnotation{Name: w.Name}, nil
	case "Pointer":
		var w struct {
			Elem json.RawMessage `json:"elem"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		elem, err := d.annotation(w.Elem)
		if err != nil {
			return nil, err
		}
		return ast.PointerAnnotation{Elem: elem}, nil
	case "Array":
		var w struct {
			Elem json.RawMessage `json:"elem"`
			Size int             `json:"size"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		elem, err := d.annotation(w.Elem)
		if err != nil {
			return nil, err
		}
		return ast.ArrayAnnotation{Elem: elem, Size: w.Size}, nil
	case "Result":
		var w struct {
			Ok  json.RawMessage `json:"ok"`
			Err json.RawMessage `json:"err"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		ok, err := d.annotation(w.Ok)
		if err != nil {
			return nil, err
		}
		errAnn, err := d.annotation(w.Err)
		if err != nil {
			return nil, err
		}
		return ast.ResultAnnotation{Ok: ok, Err: errAnn}, nil
	case "Final":
		var w struct {
			Inner json.RawMessage `json:"inner"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		inner, err := d.annotation(w.Inner)
		if err != nil {
			return nil, err
		}
		return ast.FinalAnnotation{Inner: inner}, nil
	default:
		return nil, fmt.Errorf("unknown type annotation kind %q", kind)
	}
}
