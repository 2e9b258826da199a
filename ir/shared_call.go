package ir

// SharedCallGroups partitions tensors by the identity of their
// Producer.Call pointer. Tensors that share one *Expr instance were
// populated by a single by-reference call (spec.md §9's GPU bilinear
// precompute); codegen's topological sorter must emit their Allocates
// together followed by exactly one Evaluate of that call, not one
// Evaluate per tensor. Tensors with a nil Call, or whose Call pointer is
// unique among the input, are omitted.
func SharedCallGroups(tensors []*TensorVar) map[*Expr][]*TensorVar {
	groups := make(map[*Expr][]*TensorVar)
	for _, tv := range tensors {
		if tv.Producer == nil || tv.Producer.Call == nil {
			continue
		}
		key := tv.Producer.Call
		groups[key] = append(groups[key], tv)
	}
	for key, members := range groups {
		if len(members) < 2 {
			delete(groups, key)
		}
	}
	return groups
}
