// Package pixelate implements block-average pixelation with incremental output.
//
// An image is split into square blocks of a caller-chosen size. Every pixel of a
// block is replaced by the block's average color, computed per channel with
// integer truncation. After each block the whole result buffer is persisted and
// the display is asked to refresh, so progress can be watched while the render
// is still running.
//
// # Execution Strategies
//
// Two strategies produce the same final image:
//   - Sequential: one pass over every block in row-major order.
//   - Partitioned: the image is split into block-aligned column ranges, one per
//     worker, and each range is rendered sequentially on its own goroutine.
//
// # Shared State
//
// Two buffers exist per render. The source buffer is never written once loaded
// and is read freely by every worker. The result buffer is written by workers,
// but never at overlapping coordinates because partitions are disjoint and
// aligned to block boundaries.
//
// OutputSync owns the result buffer. Pixel writes take the shared side of its
// lock so that disjoint writers run together; a flush takes the exclusive side,
// so the encoder never observes a block half painted and two flushes never
// interleave.
//
// # Errors
//
// Failures wrap one of three sentinels and can be tested with errors.Is:
//   - ErrInvalidArgument: bad square size, bad partition request, empty block.
//   - ErrStorageFailure: the Store rejected a snapshot.
//   - ErrLoadFailure: the source image could not be read or decoded.
//
// In partitioned mode a failing worker does not stop its siblings; the render
// returns a *PartitionError once every worker has finished.
package pixelate
