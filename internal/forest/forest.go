// Package forest assembles flat, creation-ordered rows into ordered trees.
package forest

// OrphanPolicy decides what happens to a row whose parent is not in the input.
type OrphanPolicy int

const (
	// DropOrphans leaves rows with a missing parent out of the result.
	DropOrphans OrphanPolicy = iota
	// PromoteOrphans surfaces rows with a missing parent as top-level roots.
	PromoteOrphans
)

// Node is one row plus its ordered children.
type Node[T any] struct {
	Value    T
	Children []*Node[T]
}

type options struct {
	orphans OrphanPolicy
}

// Option configures Assemble.
type Option func(*options)

// WithOrphanPolicy overrides the default DropOrphans behavior.
func WithOrphanPolicy(p OrphanPolicy) Option {
	return func(o *options) {
		o.orphans = p
	}
}

// Assemble builds a forest from rows in two passes. Rows are expected in
// creation order; siblings and roots keep that order. parent reports the
// parent key of a row and false for roots.
func Assemble[K comparable, T any](rows []T, id func(T) K, parent func(T) (K, bool), opts ...Option) []*Node[T] {
	cfg := options{orphans: DropOrphans}
	for _, opt := range opts {
		opt(&cfg)
	}

	nodes := make(map[K]*Node[T], len(rows))
	order := make([]*Node[T], len(rows))
	for i, row := range rows {
		n := &Node[T]{Value: row, Children: []*Node[T]{}}
		nodes[id(row)] = n
		order[i] = n
	}

	roots := make([]*Node[T], 0)
	for i, row := range rows {
		n := order[i]
		pid, hasParent := parent(row)
		if !hasParent {
			roots = append(roots, n)
			continue
		}
		p, ok := nodes[pid]
		if !ok {
			if cfg.orphans == PromoteOrphans {
				roots = append(roots, n)
			}
			continue
		}
		p.Children = append(p.Children, n)
	}
	return roots
}

// Map converts a forest into another shape bottom-up. fn receives a node's
// value and its already converted children. A node that is already on the
// current path is skipped, so malformed self-referencing input terminates.
func Map[T, U any](roots []*Node[T], fn func(T, []U) U) []U {
	onPath := make(map[*Node[T]]bool)
	var walk func(nodes []*Node[T]) []U
	walk = func(nodes []*Node[T]) []U {
		out := make([]U, 0, len(nodes))
		for _, n := range nodes {
			if onPath[n] {
				continue
			}
			onPath[n] = true
			out = append(out, fn(n.Value, walk(n.Children)))
			delete(onPath, n)
		}
		return out
	}
	return walk(roots)
}

// Count returns the number of distinct nodes reachable from roots.
func Count[T any](roots []*Node[T]) int {
	seen := make(map[*Node[T]]bool)
	stack := append([]*Node[T](nil), roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, n.Children...)
	}
	return len(seen)
}

// GroupBy splits rows into buckets keyed by key, preserving input order
// inside each bucket.
func GroupBy[K comparable, T any](rows []T, key func(T) K) map[K][]T {
	out := make(map[K][]T)
	for _, row := range rows {
		k := key(row)
		out[k] = append(out[k], row)
	}
	return out
}
