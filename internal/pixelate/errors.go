package pixelate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a bad square size, dimension, worker count,
	// or an averaging request over a region with no pixels.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorageFailure reports that the Store rejected a snapshot.
	ErrStorageFailure = errors.New("storage failure")

	// ErrLoadFailure reports that the source image could not be obtained or decoded.
	ErrLoadFailure = errors.New("load failure")
)

// PartitionError is returned by a partitioned render when at least one worker
// failed. Workers that did not fail ran to completion, so their column ranges
// of the result are fully rendered.
type PartitionError struct {
	// Partition is the index of the lowest-numbered failing partition.
	Partition int

	// Range is the column range of that partition.
	Range Partition

	// Failed is the number of partitions that returned an error.
	Failed int

	// Completed is the number of partitions that finished without error.
	Completed int

	// Err is the error returned by the partition at index Partition.
	Err error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %d [%d,%d) failed (%d failed, %d completed): %v",
		e.Partition, e.Range.XStart, e.Range.XEnd, e.Failed, e.Completed, e.Err)
}

func (e *PartitionError) Unwrap() error {
	return e.Err
}
