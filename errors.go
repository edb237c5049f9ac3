package sharestax

import "errors"

// Errors reported by the matching engine and its collaborators. All of
// them mark caller bugs or corrupt input rather than recoverable
// conditions: processing of the offending (currency, company) pair must
// stop when one is returned.
var (
	// ErrIncompatibleFragment is returned when a fragment pushed into a
	// day partition does not share the partition's bound company,
	// currency, side or trade date.
	ErrIncompatibleFragment = errors.New("incompatible trade fragment")

	// ErrEmptyPartition is returned when popping from an empty day partition.
	ErrEmptyPartition = errors.New("day partition is empty")

	// ErrInconsistentDate is returned when a second trade date shows up
	// on one side of a gain line before it is finalized.
	ErrInconsistentDate = errors.New("inconsistent trade date in gain line")

	// ErrEmptyFinalize is returned when finalizing an accumulator that
	// holds no quantity on either side.
	ErrEmptyFinalize = errors.New("cannot finalize empty gain line accumulator")

	// ErrUnbalancedLine is returned when a gain line's sold and bought
	// totals differ, or its fragment and trade counts disagree.
	ErrUnbalancedLine = errors.New("unbalanced capital gain line")

	// ErrOneSidedCycle is returned when a trade cycle missing one side
	// reaches the matching engine. One-sided cycles must be routed to
	// leftover by the caller.
	ErrOneSidedCycle = errors.New("trade cycle has executions on one side only")
)
