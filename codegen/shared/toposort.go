// Package shared holds the parts of the code generator that do not
// differ between the CPU and GPU backends: the tensor-DAG topological
// sorter and the identifier sanitizer, grounded on
// original_source's X86Codegen.cpp TopologySorter and makeIdentifier.
package shared

import (
	"errors"
	"fmt"

	"github.com/ajroetker/fusekernel/ir"
)

// ErrCyclicDependency is returned by Sort when the tensor DAG rooted at
// the argument is not acyclic (spec.md §3 invariant 3).
var ErrCyclicDependency = errors.New("codegen: cyclic tensor dependency")

type nodeState int

const (
	unvisited nodeState = iota
	visiting
	done
)

// Sort returns every tensor reachable from root (root included), ordered
// so that each tensor's Dependencies() precede it — the order in which
// the code generator must emit Allocate statements (spec.md §4.E point 1:
// "a tensor that is referenced but not yet defined triggers emission of
// an Allocate"). Tensors that share one Producer.Call instance (the GPU
// bilinear scratch group, spec.md §9) are kept contiguous and ordered
// among themselves by first-encountered order, never interleaved with
// unrelated tensors, since codegen must emit all of their Allocates
// followed by exactly one Evaluate(Call).
func Sort(root *ir.TensorVar) ([]*ir.TensorVar, error) {
	all := collectReachable(root)
	groups := ir.SharedCallGroups(all)
	groupOf := make(map[*ir.TensorVar][]*ir.TensorVar, len(all))
	for _, members := range groups {
		for _, m := range members {
			groupOf[m] = members
		}
	}

	states := make(map[*ir.TensorVar]nodeState, len(all))
	var order []*ir.TensorVar
	var visit func(tv *ir.TensorVar) error
	visit = func(tv *ir.TensorVar) error {
		switch states[tv] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrCyclicDependency, tv.Name)
		}

		group := groupOf[tv]
		if group == nil {
			group = []*ir.TensorVar{tv}
		}
		memberSet := make(map[*ir.TensorVar]bool, len(group))
		for _, m := range group {
			memberSet[m] = true
			states[m] = visiting
		}
		for _, m := range group {
			for _, dep := range ir.Dependencies(m) {
				if memberSet[dep] {
					continue
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		for _, m := range group {
			states[m] = done
			order = append(order, m)
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

func collectReachable(root *ir.TensorVar) []*ir.TensorVar {
	seen := map[*ir.TensorVar]bool{}
	var order []*ir.TensorVar
	var walk func(tv *ir.TensorVar)
	walk = func(tv *ir.TensorVar) {
		if seen[tv] {
			return
		}
		seen[tv] = true
		order = append(order, tv)
		for _, dep := range ir.Dependencies(tv) {
			walk(dep)
		}
	}
	walk(root)
	return order
}
