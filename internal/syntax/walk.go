package syntax

// LoaderName is the identifier a module reference must call.
const LoaderName = "require"

// Scope is one lexical frame of declared local names.
type Scope struct {
	Parent *Scope
	names  map[string]struct{}
}

// NewScope returns an empty frame chained to parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, names: make(map[string]struct{})}
}

// Declare binds name in this frame.
func (s *Scope) Declare(name string) {
	s.names[name] = struct{}{}
}

// Declared reports whether name is bound in this frame or any parent.
func (s *Scope) Declared(name string) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if _, ok := cur.names[name]; ok {
			return true
		}
	}
	return false
}

// RequireCall is a module reference: a call of the unshadowed loader
// identifier with exactly one string literal argument.
type RequireCall struct {
	Call   *CallExpr
	Callee *NameExpr
	Arg    *StringExpr
}

// Module returns the literal module name.
func (r RequireCall) Module() string {
	return r.Arg.Tok.Value
}

// WalkRequires visits every module reference in block in source order.
//
// Locals are declared after their initializers are walked, local functions
// before their bodies, and function parameters and loop variables inside the
// frame of the body they scope. An unqualified `function require()` also
// shadows the loader for the rest of its frame.
func WalkRequires(block *Block, fn func(RequireCall)) {
	w := &walker{fn: fn, scope: NewScope(nil)}
	w.block(block)
}

type walker struct {
	fn    func(RequireCall)
	scope *Scope
}

func (w *walker) push() {
	w.scope = NewScope(w.scope)
}

func (w *walker) pop() {
	w.scope = w.scope.Parent
}

func (w *walker) block(b *Block) {
	if b == nil {
		return
	}
	w.push()
	w.blockBody(b)
	w.pop()
}

// blockBody walks b in the current frame.
func (w *walker) blockBody(b *Block) {
	for _, s := range b.Stmts {
		w.stmt(s)
	}
	if b.Return != nil {
		w.exprs(b.Return.Values)
	}
}

func (w *walker) stmt(s Stmt) {
	switch s := s.(type) {
	case *LocalStmt:
		w.exprs(s.Values)
		for _, n := range s.Names {
			w.scope.Declare(n.Name())
		}
	case *LocalFunctionStmt:
		w.scope.Declare(s.Name.Name())
		w.function(s.Func)
	case *FunctionStmt:
		if len(s.Path) == 1 && s.Method == nil {
			w.scope.Declare(s.Path[0].Name())
		}
		w.function(s.Func)
	case *AssignStmt:
		w.exprs(s.Values)
		w.exprs(s.Targets)
	case *CallStmt:
		w.expr(s.Call)
	case *DoStmt:
		w.block(s.Body)
	case *WhileStmt:
		w.expr(s.Cond)
		w.block(s.Body)
	case *RepeatStmt:
		w.push()
		w.blockBody(s.Body)
		w.expr(s.Cond)
		w.pop()
	case *IfStmt:
		for i, cond := range s.Conds {
			w.expr(cond)
			w.block(s.Blocks[i])
		}
		w.block(s.Else)
	case *NumericForStmt:
		w.expr(s.Start)
		w.expr(s.Limit)
		w.expr(s.Step)
		w.push()
		w.scope.Declare(s.Var.Name())
		w.block(s.Body)
		w.pop()
	case *GenericForStmt:
		w.exprs(s.Exprs)
		w.push()
		for _, n := range s.Names {
			w.scope.Declare(n.Name())
		}
		w.block(s.Body)
		w.pop()
	case *ReturnStmt:
		w.exprs(s.Values)
	}
}

func (w *walker) function(f *FunctionExpr) {
	w.push()
	for _, p := range f.Params {
		w.scope.Declare(p.Name())
	}
	w.block(f.Body)
	w.pop()
}

func (w *walker) exprs(list []Expr) {
	for _, e := range list {
		w.expr(e)
	}
}

func (w *walker) expr(e Expr) {
	switch e := e.(type) {
	case nil:
	case *CallExpr:
		if rc, ok := w.requireCall(e); ok {
			w.fn(rc)
		}
		w.expr(e.Fn)
		switch e.Args.Kind {
		case ArgsParen:
			w.exprs(e.Args.List)
		case ArgsTable:
			w.expr(e.Args.Table)
		}
	case *FunctionExpr:
		w.function(e)
	case *FieldExpr:
		w.expr(e.X)
	case *IndexExpr:
		w.expr(e.X)
		w.expr(e.Index)
	case *ParenExpr:
		w.expr(e.X)
	case *BinaryExpr:
		w.expr(e.X)
		w.expr(e.Y)
	case *UnaryExpr:
		w.expr(e.X)
	case *TableExpr:
		for _, f := range e.Fields {
			w.expr(f.Key)
			w.expr(f.Value)
		}
	}
}

func (w *walker) requireCall(c *CallExpr) (RequireCall, bool) {
	name, ok := c.Fn.(*NameExpr)
	if !ok || c.Method != nil || name.Name() != LoaderName {
		return RequireCall{}, false
	}
	if w.scope.Declared(LoaderName) {
		return RequireCall{}, false
	}
	switch c.Args.Kind {
	case ArgsString:
		return RequireCall{Call: c, Callee: name, Arg: c.Args.String}, true
	case ArgsParen:
		if len(c.Args.List) != 1 {
			return RequireCall{}, false
		}
		if s, ok := c.Args.List[0].(*StringExpr); ok {
			return RequireCall{Call: c, Callee: name, Arg: s}, true
		}
	}
	return RequireCall{}, false
}
