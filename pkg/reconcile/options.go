package reconcile

// CommitOption is a functional option for configuring Commit.
type CommitOption func(*commitOptions)

type commitOptions struct {
	pruneRemoved bool
}

// WithPrune controls whether Commit deletes records whose keys are absent
// from the incoming snapshot. Pruning disabled is the additive "new data"
// import mode; pruning enabled is a full diff merge.
func WithPrune(prune bool) CommitOption {
	return func(o *commitOptions) {
		o.pruneRemoved = prune
	}
}
