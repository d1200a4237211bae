package syntax

// Block is a sequence of statements with an optional trailing return.
type Block struct {
	Stmts  []Stmt
	Return *ReturnStmt
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	stmtNode()
}

// Expr is implemented by all expression nodes.
type Expr interface {
	exprNode()
}

type (
	// LocalStmt is `local a <attrib>, b = x, y`.
	LocalStmt struct {
		Names   []*NameExpr
		Attribs []string
		Values  []Expr
	}

	// LocalFunctionStmt is `local function f() end`.
	LocalFunctionStmt struct {
		Name *NameExpr
		Func *FunctionExpr
	}

	// FunctionStmt is `function a.b.c:m() end`. Path holds a, b and c.
	FunctionStmt struct {
		Path   []*NameExpr
		Method *NameExpr
		Func   *FunctionExpr
	}

	AssignStmt struct {
		Targets []Expr
		Values  []Expr
	}

	CallStmt struct {
		Call *CallExpr
	}

	DoStmt struct {
		Body *Block
	}

	WhileStmt struct {
		Cond Expr
		Body *Block
	}

	// RepeatStmt is `repeat body until cond`; Cond sees the body's locals.
	RepeatStmt struct {
		Body *Block
		Cond Expr
	}

	// IfStmt holds the `if` and `elseif` arms in order.
	IfStmt struct {
		Conds  []Expr
		Blocks []*Block
		Else   *Block
	}

	NumericForStmt struct {
		Var   *NameExpr
		Start Expr
		Limit Expr
		Step  Expr
		Body  *Block
	}

	GenericForStmt struct {
		Names []*NameExpr
		Exprs []Expr
		Body  *Block
	}

	ReturnStmt struct {
		Values []Expr
	}

	BreakStmt struct {
		Tok Token
	}

	GotoStmt struct {
		Label *NameExpr
	}

	LabelStmt struct {
		Name *NameExpr
	}
)

func (*LocalStmt) stmtNode()         {}
func (*LocalFunctionStmt) stmtNode() {}
func (*FunctionStmt) stmtNode()      {}
func (*AssignStmt) stmtNode()        {}
func (*CallStmt) stmtNode()          {}
func (*DoStmt) stmtNode()            {}
func (*WhileStmt) stmtNode()         {}
func (*RepeatStmt) stmtNode()        {}
func (*IfStmt) stmtNode()            {}
func (*NumericForStmt) stmtNode()    {}
func (*GenericForStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()        {}
func (*BreakStmt) stmtNode()         {}
func (*GotoStmt) stmtNode()          {}
func (*LabelStmt) stmtNode()         {}

// ArgsKind distinguishes the three call argument forms.
type ArgsKind int

const (
	// ArgsParen is `f(a, b)`.
	ArgsParen ArgsKind = iota
	// ArgsString is the string sugar `f "a"`.
	ArgsString
	// ArgsTable is the table sugar `f {a}`.
	ArgsTable
)

// Args are the arguments of a call.
type Args struct {
	Kind   ArgsKind
	List   []Expr
	String *StringExpr
	Table  *TableExpr
}

type (
	NameExpr struct {
		Tok Token
	}

	StringExpr struct {
		Tok Token
	}

	NumberExpr struct {
		Tok Token
	}

	// LiteralExpr is nil, true, false or `...`.
	LiteralExpr struct {
		Tok Token
	}

	// FieldExpr is `x.name`.
	FieldExpr struct {
		X    Expr
		Name *NameExpr
	}

	// IndexExpr is `x[index]`.
	IndexExpr struct {
		X     Expr
		Index Expr
	}

	// CallExpr is `fn(args)` or, with Method set, `fn:method(args)`.
	CallExpr struct {
		Fn     Expr
		Method *NameExpr
		Args   Args
	}

	FunctionExpr struct {
		Params []*NameExpr
		Vararg bool
		Body   *Block
	}

	ParenExpr struct {
		X Expr
	}

	BinaryExpr struct {
		Op Token
		X  Expr
		Y  Expr
	}

	UnaryExpr struct {
		Op Token
		X  Expr
	}

	TableExpr struct {
		Fields []*TableField
	}
)

// TableField is one entry of a table constructor: `[k] = v`, `name = v`
// or a positional `v`.
type TableField struct {
	Key   Expr
	Name  *NameExpr
	Value Expr
}

func (*NameExpr) exprNode()     {}
func (*StringExpr) exprNode()   {}
func (*NumberExpr) exprNode()   {}
func (*LiteralExpr) exprNode()  {}
func (*FieldExpr) exprNode()    {}
func (*IndexExpr) exprNode()    {}
func (*CallExpr) exprNode()     {}
func (*FunctionExpr) exprNode() {}
func (*ParenExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*TableExpr) exprNode()    {}

// Name returns the identifier.
func (n *NameExpr) Name() string {
	return n.Tok.Value
}
