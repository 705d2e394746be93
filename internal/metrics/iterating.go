package metrics

import "sort"

// defaultIterating lists the Enumerable, Array, Hash and Integer methods
// whose block runs once per element.
var defaultIterating = []string{
	// Array
	"bsearch", "bsearch_index", "collect", "collect!", "combination",
	"d_permutation", "delete_if", "each", "each_index", "keep_if", "map!",
	"permutation", "product", "reject!", "repeated_combination",
	"repeated_permutation", "reverse_each", "select!", "sort!", "sort_by!",
	// Enumerable
	"all?", "any?", "chain", "chunk", "chunk_while", "collect_concat",
	"count", "cycle", "detect", "drop", "drop_while", "each_cons",
	"each_entry", "each_slice", "each_with_index", "each_with_object",
	"entries", "filter", "filter_map", "find", "find_all", "find_index",
	"first", "flat_map", "grep", "grep_v", "group_by", "include?", "inject",
	"lazy", "map", "max", "max_by", "member?", "min", "min_by", "minmax",
	"minmax_by", "none?", "one?", "partition", "reduce", "reject",
	"slice_after", "slice_before", "slice_when", "sort", "sort_by", "sum",
	"take", "take_while", "tally", "to_h", "uniq", "zip",
	// Hash
	"each_key", "each_pair", "each_value", "fetch", "fetch_values",
	"filter!", "select", "transform_keys", "transform_keys!",
	"transform_values", "transform_values!",
	// Integer
	"downto", "step", "times", "upto",
}

// DefaultIteratingMethods returns the built-in iterating method names,
// sorted.
func DefaultIteratingMethods() []string {
	out := make([]string, len(defaultIterating))
	copy(out, defaultIterating)
	sort.Strings(out)
	return out
}

func iteratingSet(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(defaultIterating)+len(extra))
	for _, name := range defaultIterating {
		set[name] = struct{}{}
	}
	for _, name := range extra {
		set[name] = struct{}{}
	}
	return set
}
