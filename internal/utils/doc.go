// Package utils provides shared low-level helpers used throughout the reago
// internals: JSON rendering that never fails, string truncation for log and
// prompt output, and resource cleanup that logs instead of discarding errors.
//
// Key entry points: [Stringify] for turning arbitrary tool results into
// observation text, [TruncateString] for bounding log attributes, and
// [CloseWithLog] for deferred body closing.
package utils
