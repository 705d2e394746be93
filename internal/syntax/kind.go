package syntax

// Kind is the closed set of node types produced by the frontend.
// Names follow the s-expression vocabulary used in patterns.
type Kind uint8

const (
	KindInvalid Kind = iota

	// definitions
	KindDef
	KindDefs
	KindClass
	KindModule
	KindSClass
	KindArgs
	KindArg
	KindOptArg
	KindRestArg
	KindKwArg
	KindKwOptArg
	KindKwRestArg
	KindBlockArg
	KindShadowArg
	KindForwardArg
	KindMlhs

	// sequences
	KindBegin
	KindKwBegin

	// assignment
	KindLvasgn
	KindIvasgn
	KindCvasgn
	KindGvasgn
	KindCasgn
	KindOpAsgn
	KindOrAsgn
	KindAndAsgn
	KindMasgn
	KindSplat
	KindKwSplat

	// variables
	KindLvar
	KindIvar
	KindCvar
	KindGvar
	KindConst
	KindCbase

	// calls
	KindSend
	KindCSend
	KindSuper
	KindZSuper
	KindYield
	KindBlock
	KindBlockPass

	// control flow
	KindIf
	KindCase
	KindWhen
	KindWhile
	KindUntil
	KindFor
	KindBreak
	KindNext
	KindRedo
	KindRetry
	KindReturn
	KindAnd
	KindOr
	KindRescue
	KindResBody
	KindEnsure
	KindDefined

	// literals
	KindInt
	KindFloat
	KindStr
	KindDstr
	KindSym
	KindDsym
	KindRegexp
	KindArray
	KindHash
	KindPair
	KindIRange
	KindERange
	KindNil
	KindTrue
	KindFalse
	KindSelf

	// KindOther wraps constructs the frontend does not model; atom 0 holds the
	// frontend's own type name.
	KindOther

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:    "invalid",
	KindDef:        "def",
	KindDefs:       "defs",
	KindClass:      "class",
	KindModule:     "module",
	KindSClass:     "sclass",
	KindArgs:       "args",
	KindArg:        "arg",
	KindOptArg:     "optarg",
	KindRestArg:    "restarg",
	KindKwArg:      "kwarg",
	KindKwOptArg:   "kwoptarg",
	KindKwRestArg:  "kwrestarg",
	KindBlockArg:   "blockarg",
	KindShadowArg:  "shadowarg",
	KindForwardArg: "forward_arg",
	KindMlhs:       "mlhs",
	KindBegin:      "begin",
	KindKwBegin:    "kwbegin",
	KindLvasgn:     "lvasgn",
	KindIvasgn:     "ivasgn",
	KindCvasgn:     "cvasgn",
	KindGvasgn:     "gvasgn",
	KindCasgn:      "casgn",
	KindOpAsgn:     "op_asgn",
	KindOrAsgn:     "or_asgn",
	KindAndAsgn:    "and_asgn",
	KindMasgn:      "masgn",
	KindSplat:      "splat",
	KindKwSplat:    "kwsplat",
	KindLvar:       "lvar",
	KindIvar:       "ivar",
	KindCvar:       "cvar",
	KindGvar:       "gvar",
	KindConst:      "const",
	KindCbase:      "cbase",
	KindSend:       "send",
	KindCSend:      "csend",
	KindSuper:      "super",
	KindZSuper:     "zsuper",
	KindYield:      "yield",
	KindBlock:      "block",
	KindBlockPass:  "block_pass",
	KindIf:         "if",
	KindCase:       "case",
	KindWhen:       "when",
	KindWhile:      "while",
	KindUntil:      "until",
	KindFor:        "for",
	KindBreak:      "break",
	KindNext:       "next",
	KindRedo:       "redo",
	KindRetry:      "retry",
	KindReturn:     "return",
	KindAnd:        "and",
	KindOr:         "or",
	KindRescue:     "rescue",
	KindResBody:    "resbody",
	KindEnsure:     "ensure",
	KindDefined:    "defined?",
	KindInt:        "int",
	KindFloat:      "float",
	KindStr:        "str",
	KindDstr:       "dstr",
	KindSym:        "sym",
	KindDsym:       "dsym",
	KindRegexp:     "regexp",
	KindArray:      "array",
	KindHash:       "hash",
	KindPair:       "pair",
	KindIRange:     "irange",
	KindERange:     "erange",
	KindNil:        "nil",
	KindTrue:       "true",
	KindFalse:      "false",
	KindSelf:       "self",
	KindOther:      "other",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindInvalid + 1; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind resolves a kind by its s-expression name.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// IsVariableAssignment reports kinds of the form `name = value`.
func (k Kind) IsVariableAssignment() bool {
	switch k {
	case KindLvasgn, KindIvasgn, KindCvasgn, KindGvasgn, KindCasgn:
		return true
	default:
		return false
	}
}

// IsShorthandAssignment reports `x op= v`, `x ||= v` and `x &&= v`.
func (k Kind) IsShorthandAssignment() bool {
	switch k {
	case KindOpAsgn, KindOrAsgn, KindAndAsgn:
		return true
	default:
		return false
	}
}

// IsArgument reports parameter kinds found under args and mlhs.
func (k Kind) IsArgument() bool {
	switch k {
	case KindArg, KindOptArg, KindRestArg, KindKwArg, KindKwOptArg,
		KindKwRestArg, KindBlockArg, KindShadowArg, KindForwardArg:
		return true
	default:
		return false
	}
}

// IsCall reports method-call kinds.
func (k Kind) IsCall() bool {
	return k == KindSend || k == KindCSend
}

// IsLiteral reports self-evaluating kinds.
func (k Kind) IsLiteral() bool {
	switch k {
	case KindInt, KindFloat, KindStr, KindDstr, KindSym, KindDsym, KindRegexp,
		KindArray, KindHash, KindIRange, KindERange, KindNil, KindTrue, KindFalse:
		return true
	default:
		return false
	}
}
