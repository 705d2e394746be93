package testkit

import (
	"strings"

	"rubric/internal/syntax"
)

// Lvar is a local variable read.
func Lvar(name string) *Piece { return N(syntax.KindLvar, Word(name)) }

// Ivar is an instance variable read.
func Ivar(name string) *Piece { return N(syntax.KindIvar, Word(name)) }

// Call is a receiverless call without arguments: `foo`.
func Call(name string) *Piece { return N(syntax.KindSend, Absent, Word(name)) }

// Int is an integer literal.
func Int(v string) *Piece { return N(syntax.KindInt, Word(v)) }

// Sym is a symbol literal; the atom omits the colon.
func Sym(v string) *Piece { return N(syntax.KindSym, ":", Word(v)) }

// Str is a single-quoted string literal.
func Str(v string) *Piece { return N(syntax.KindStr, "'", Word(v), "'") }

// Nil is the nil literal.
func Nil() *Piece { return N(syntax.KindNil, "nil") }

// Asgn is `name = value`.
func Asgn(name string, value *Piece) *Piece {
	return N(syntax.KindLvasgn, Word(name), " = ", value)
}

// Target is an assignment target without a value, as found in mlhs.
func Target(name string) *Piece { return N(syntax.KindLvasgn, Word(name), Absent) }

// Send is `recv.method(args...)`. A nil receiver renders `method(args)`;
// no arguments render without parentheses.
func Send(recv *Piece, method string, args ...*Piece) *Piece {
	return send(syntax.KindSend, ".", recv, method, args)
}

// CSend is `recv&.method(args...)`.
func CSend(recv *Piece, method string, args ...*Piece) *Piece {
	return send(syntax.KindCSend, "&.", recv, method, args)
}

func send(kind syntax.Kind, dot string, recv *Piece, method string, args []*Piece) *Piece {
	parts := make([]any, 0, 6+2*len(args))
	if recv != nil {
		parts = append(parts, recv, dot)
	} else {
		parts = append(parts, Absent)
	}
	parts = append(parts, Word(method))
	if len(args) > 0 {
		parts = append(parts, "(")
		for i, a := range args {
			if i > 0 {
				parts = append(parts, ", ")
			}
			parts = append(parts, a)
		}
		parts = append(parts, ")")
	}
	return N(kind, parts...)
}

// Binary is `lhs op rhs` as an operator call.
func Binary(lhs *Piece, op string, rhs *Piece) *Piece {
	return N(syntax.KindSend, lhs, " ", Word(op), " ", rhs)
}

// Seq joins statements with sep inside a begin node. A single statement is
// returned unwrapped.
func Seq(sep string, stmts ...*Piece) *Piece {
	if len(stmts) == 1 {
		return stmts[0]
	}
	parts := make([]any, 0, 2*len(stmts))
	for i, s := range stmts {
		if i > 0 {
			parts = append(parts, sep)
		}
		parts = append(parts, s)
	}
	return N(syntax.KindBegin, parts...)
}

// Lines is Seq with a newline and two-space indent.
func Lines(stmts ...*Piece) *Piece { return Seq("\n  ", stmts...) }

// Args builds a parameter list. Empty args render nothing.
func Args(params ...*Piece) *Piece {
	if len(params) == 0 {
		return N(syntax.KindArgs)
	}
	parts := []any{"("}
	for i, p := range params {
		if i > 0 {
			parts = append(parts, ", ")
		}
		parts = append(parts, p)
	}
	parts = append(parts, ")")
	return N(syntax.KindArgs, parts...)
}

// Arg is a required positional parameter.
func Arg(name string) *Piece { return N(syntax.KindArg, Word(name)) }

// Def renders `def name(params)\n  body\nend`. A nil body renders an empty
// method.
func Def(name string, args *Piece, body *Piece) *Piece {
	if args == nil {
		args = Args()
	}
	if body == nil {
		return N(syntax.KindDef, "def ", Word(name), args, Absent, "\nend")
	}
	return N(syntax.KindDef, "def ", Word(name), args, "\n  ", body, "\nend")
}

// BlockArgs renders `|a, b|` parameters.
func BlockArgs(names ...string) *Piece {
	if len(names) == 0 {
		return N(syntax.KindArgs)
	}
	parts := []any{" |"}
	for i, n := range names {
		if i > 0 {
			parts = append(parts, ", ")
		}
		parts = append(parts, Arg(n))
	}
	parts = append(parts, "|")
	return N(syntax.KindArgs, parts...)
}

// Block renders `call { |args| body }`.
func Block(call *Piece, args *Piece, body *Piece) *Piece {
	if args == nil {
		args = N(syntax.KindArgs)
	}
	if body == nil {
		return N(syntax.KindBlock, call, " {", args, Absent, " }")
	}
	return N(syntax.KindBlock, call, " {", args, " ", body, " }")
}

// Indent prefixes every line after the first with two spaces. It is used
// when writing nested statement text by hand.
func Indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}

// IfMod is `body if cond`.
func IfMod(body, cond *Piece) *Piece {
	return N(syntax.KindIf, body, " if ", cond, Absent).With(syntax.FlagModifier).Order(1, 0, 2)
}

// Ternary is `cond ? a : b`.
func Ternary(cond, a, b *Piece) *Piece {
	return N(syntax.KindIf, cond, " ? ", a, " : ", b).With(syntax.FlagTernary)
}

// Paren wraps statements in a parenthesized begin node: `(a; b)`.
func Paren(stmts ...*Piece) *Piece {
	parts := []any{"("}
	for i, s := range stmts {
		if i > 0 {
			parts = append(parts, "; ")
		}
		parts = append(parts, s)
	}
	parts = append(parts, ")")
	return N(syntax.KindBegin, parts...)
}
