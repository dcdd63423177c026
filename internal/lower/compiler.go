// Package lower translates a typed program into IR.
package lower

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vais-lang/vais/internal/ast"
	"github.com/vais-lang/vais/internal/builtins"
	"github.com/vais-lang/vais/internal/ir"
	"github.com/vais-lang/vais/internal/prettyprinter"
	"github.com/vais-lang/vais/internal/typesystem"
)

// Lower produces the IR module of a type-checked program. Functions are
// lowered concurrently; the module lists them in declaration order with each
// function's lambdas right after it, so the result does not depend on
// scheduling.
func Lower(typed *typesystem.TypedProgram) (*ir.Module, error) {
	if typed == nil || typed.Program == nil {
		return nil, iceErrorf("<program>", "lowering an unchecked program")
	}
	l := &lowerer{typed: typed, funcs: make(map[string]bool)}
	for _, fn := range typed.Program.Functions {
		l.funcs[fn.Name] = true
	}

	decls := typed.Program.Functions
	results := make([][]*ir.Function, len(decls)+1)

	var g errgroup.Group
	for i, decl := range decls {
		i, decl := i, decl
		g.Go(func() error {
			fns, err := l.lowerFunction(decl)
			results[i] = fns
			return err
		})
	}
	if typed.Program.Main != nil {
		g.Go(func() error {
			fns, err := l.lowerMain(typed.Program.Main)
			results[len(decls)] = fns
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*ir.Function
	for _, fns := range results {
		all = append(all, fns...)
	}
	m, err := ir.NewModule(all)
	if err != nil {
		return nil, errors.WithStack(&ICE{Function: "<module>", Msg: err.Error()})
	}
	return m, nil
}

// lowerer holds what all function compilers share. It is read-only once
// lowering starts.
type lowerer struct {
	typed *typesystem.TypedProgram
	funcs map[string]bool
}

// funcCompiler lowers one IR function.
type funcCompiler struct {
	l      *lowerer
	name   string
	owner  string // top-level function that @ refers to
	lambda bool

	scope  *scope
	locals []typesystem.Type
	code   []ir.Instruction
	depth  int

	// lambdas collects the functions synthesized while lowering owner,
	// shared by the owner's compiler and all of its nested lambdas.
	lambdas *[]*ir.Function
	wrapped map[string]string
}

func (l *lowerer) newCompiler(name, owner string, lambdas *[]*ir.Function, wrapped map[string]string) *funcCompiler {
	return &funcCompiler{l: l, name: name, owner: owner, lambdas: lambdas, wrapped: wrapped}
}

func (l *lowerer) lowerFunction(decl *ast.FunctionDecl) ([]*ir.Function, error) {
	sig, ok := l.typed.Signatures[decl.Name]
	if !ok {
		return nil, iceErrorf(decl.Name, "no signature")
	}
	var lambdas []*ir.Function
	fc := l.newCompiler(decl.Name, decl.Name, &lambdas, map[string]string{})
	for i, p := range decl.Params {
		fc.declare(p.Name, sig.Params[i])
	}
	if err := fc.tail(decl.Body); err != nil {
		return nil, err
	}
	fn := fc.finish(len(decl.Params), sig.Params, sig.ReturnType)
	return append([]*ir.Function{fn}, lambdas...), nil
}

func (l *lowerer) lowerMain(main ast.Expression) ([]*ir.Function, error) {
	var lambdas []*ir.Function
	fc := l.newCompiler(ir.MainFunction, ir.MainFunction, &lambdas, map[string]string{})
	if err := fc.tail(main); err != nil {
		return nil, err
	}
	fn := fc.finish(0, nil, l.typed.MainType)
	return append([]*ir.Function{fn}, lambdas...), nil
}

func (fc *funcCompiler) finish(arity int, params []typesystem.Type, ret typesystem.Type) *ir.Function {
	return &ir.Function{
		Name:       fc.name,
		Arity:      arity,
		NumLocals:  len(fc.locals),
		Code:       fc.code,
		ParamTypes: params,
		ReturnType: ret,
		LocalTypes: fc.locals,
		Lambda:     fc.lambda,
		Owner:      fc.owner,
	}
}

func (fc *funcCompiler) typeOf(n ast.Node) (typesystem.Type, error) {
	t, ok := fc.l.typed.Types[n]
	if !ok {
		return nil, iceErrorf(fc.name, "untyped %T %s at %s", n, prettyprinter.Print(n), n.Pos())
	}
	return t, nil
}

func (fc *funcCompiler) nextLambdaName() string {
	return fmt.Sprintf("%s$lambda%d", fc.owner, len(*fc.lambdas))
}

// isBuiltinCall reports whether name refers to a builtin rather than a user
// function. User functions shadow builtins.
func (l *lowerer) isBuiltinCall(name string) bool {
	if l.funcs[name] {
		return false
	}
	_, ok := builtins.Lookup(name)
	return ok
}
