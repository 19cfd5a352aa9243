package pom

// DependencyAccumulator is the shared, mutable added_dependencies list: one
// entry per dependency occurrence, appended regardless of whether the
// occurrence won the conflict-resolution tie-break. It is shared by pointer
// across an entire resolution tree, mirroring the Python original's shared
// list reference threaded through every recursive resolve_pom call.
type DependencyAccumulator struct {
	Occurrences []*ResolvedDependency
}

func (a *DependencyAccumulator) Add(d *ResolvedDependency) {
	a.Occurrences = append(a.Occurrences, d)
}
