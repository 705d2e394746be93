// Package syntax defines the Ruby syntax tree consumed by rules and metrics.
//
// Every node has a Kind, a byte Span into its source file and an ordered
// child list. A child is another *Node, an Atom (names, operators, literal
// text) or nil for an optional slot that is absent. Child layouts:
//
//	def        (name args body?)
//	defs       (recv name args body?)
//	send/csend (recv? method arg...)
//	lvasgn     (name value?)        also ivasgn, cvasgn, gvasgn
//	casgn      (scope? name value?)
//	op_asgn    (target op value)
//	or_asgn    (target value)       also and_asgn
//	masgn      (mlhs value)
//	if         (cond then? else?)
//	case       (subject? when... else?)
//	when       (cond... body?)
//	while      (cond body?)         also until
//	for        (var iter body?)
//	block      (call args body?)
//	block_pass (expr?)
//	rescue     (body? resbody... else?)
//	resbody    (classes? var? body?)
//	ensure     (body? ensure_body?)
//	arg        (name)               optarg/kwoptarg carry (name default)
//	lvar       (name)               also ivar, cvar, gvar
//	const      (scope? name)
//	int        (text)               also float, str, sym
//	other      (type child...)
//
// Targets inside mlhs, or_asgn and for omit the value slot.
package syntax
