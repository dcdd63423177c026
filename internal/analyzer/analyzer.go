// Package analyzer infers Hindley-Milner types for a program and reports
// every type error it finds.
package analyzer

import (
	"fmt"

	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/typesystem"
)

// Check type-checks a program. It returns either a fully typed program or a
// non-empty list of errors ordered by source position, never both.
func Check(program *ast.Program) (*typesystem.TypedProgram, []*TypeError) {
	ctx := NewInferenceContext()
	c := &checker{
		ctx:        ctx,
		program:    program,
		schemes:    make(map[string]typesystem.Type),
		signatures: make(map[string]typesystem.TFunc),
		renames:    make(map[*ast.FunctionDecl]typesystem.Subst),
	}
	c.checkDuplicates()

	var env *TypeEnv
	for _, group := range recursionGroups(program.Functions) {
		env = c.checkGroup(group, env)
	}

	if program.Main != nil {
		ctx.beginFunction()
		ctx.infer(program.Main, env)
		ctx.endFunction()
	}

	if len(ctx.Errors) > 0 {
		sortErrors(ctx.Errors)
		return nil, ctx.Errors
	}

	typed := &typesystem.TypedProgram{
		Program:    program,
		Types:      make(map[ast.Node]typesystem.Type, len(ctx.TypeMap)),
		Schemes:    c.schemes,
		Signatures: c.signatures,
	}
	for _, fn := range program.Functions {
		c.zonk(typed, fn, c.renames[fn])
	}
	if program.Main != nil {
		c.zonk(typed, program.Main, nil)
		typed.MainType = typed.Types[program.Main]
	}
	return typed, nil
}

type checker struct {
	ctx        *InferenceContext
	program    *ast.Program
	schemes    map[string]typesystem.Type
	signatures map[string]typesystem.TFunc
	// renames maps each function's quantified inference variables to the
	// readable names used in its scheme.
	renames map[*ast.FunctionDecl]typesystem.Subst
}

func (c *checker) checkDuplicates() {
	seen := map[string]bool{}
	for _, fn := range c.program.Functions {
		if seen[fn.Name] {
			c.ctx.report(&TypeError{Kind: DuplicateDefinition, Span: fn.Span, Name: fn.Name})
			continue
		}
		seen[fn.Name] = true
	}
}

// checkGroup infers a set of mutually recursive functions. Each member is
// bound to a monomorphic placeholder while the bodies are checked, then all
// members are generalized together.
func (c *checker) checkGroup(group []int, env *TypeEnv) *TypeEnv {
	ctx := c.ctx
	placeholders := make([]typesystem.TFunc, len(group))
	annotated := make([]map[string]typesystem.TVar, len(group))

	groupEnv := env
	for k, idx := range group {
		fn := c.program.Functions[idx]
		vars := map[string]typesystem.TVar{}
		params := make([]typesystem.Type, len(fn.Params))
		for i, p := range fn.Params {
			if p.Type != nil {
				params[i] = ctx.annotation(p.Type, vars)
			} else {
				params[i] = ctx.FreshVar()
			}
		}
		var ret typesystem.Type = ctx.FreshVar()
		if fn.ReturnType != nil {
			ret = ctx.annotation(fn.ReturnType, vars)
		}
		placeholders[k] = typesystem.TFunc{Params: params, ReturnType: ret}
		annotated[k] = vars
		groupEnv = groupEnv.Extend(fn.Name, placeholders[k], functionBinding)
	}

	for k, idx := range group {
		fn := c.program.Functions[idx]
		pt := placeholders[k]

		fenv := groupEnv.Extend(selfName, pt, selfBinding)
		for i, p := range fn.Params {
			ctx.TypeMap[p] = pt.Params[i]
			fenv = fenv.Extend(p.Name, pt.Params[i], valueBinding)
		}

		ctx.beginFunction()
		bt := ctx.infer(fn.Body, fenv)
		ctx.unify(pt.ReturnType, bt, fn.Body.Pos())
		ctx.endFunction()
	}

	for k, idx := range group {
		fn := c.program.Functions[idx]
		sig := ctx.resolve(placeholders[k]).(typesystem.TFunc)
		rename := readableNames(sig)
		named := sig.Apply(rename).(typesystem.TFunc)

		var scheme typesystem.Type = named
		if vars := named.FreeTypeVariables(); len(vars) > 0 {
			scheme = typesystem.TForall{Vars: vars, Type: named}
		}
		if _, dup := c.schemes[fn.Name]; !dup {
			c.schemes[fn.Name] = scheme
			c.signatures[fn.Name] = named
		}
		c.renames[fn] = rename
		env = env.Extend(fn.Name, scheme, functionBinding)
	}
	return env
}

// readableNames renames the free variables of a signature to a, b, c, ...
// in order of first appearance.
func readableNames(t typesystem.Type) typesystem.Subst {
	s := typesystem.Subst{}
	for i, v := range t.FreeTypeVariables() {
		s[v.Name] = typesystem.TVar{Name: letterName(i)}
	}
	return s
}

func letterName(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return fmt.Sprintf("%c%d", 'a'+i%26, i/26)
}

// zonk writes the final type of every node under root into typed.Types.
// Variables quantified by the enclosing function take their scheme names;
// any other variable left unconstrained defaults to Void.
func (c *checker) zonk(typed *typesystem.TypedProgram, root ast.Node, rename typesystem.Subst) {
	ast.Inspect(root, func(n ast.Node) bool {
		t, ok := c.ctx.TypeMap[n]
		if !ok {
			return true
		}
		t = c.ctx.resolve(t)
		if len(rename) > 0 {
			t = t.Apply(rename)
		}
		typed.Types[n] = defaultVars(t, rename)
		return true
	})
}

func defaultVars(t typesystem.Type, rename typesystem.Subst) typesystem.Type {
	keep := make(map[string]bool, len(rename))
	for _, v := range rename {
		keep[v.(typesystem.TVar).Name] = true
	}
	defaults := typesystem.Subst{}
	for _, v := range t.FreeTypeVariables() {
		if !keep[v.Name] {
			defaults[v.Name] = typesystem.Void
		}
	}
	if len(defaults) == 0 {
		return t
	}
	return t.Apply(defaults)
}
