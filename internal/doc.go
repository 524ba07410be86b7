// Package internal contains helpers that are intentionally private to
// permbit.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//
// # What this package must NOT do
//
//   - Export types that appear in the public permbit API other than
//     through the root package's aliases.
//   - Be imported by any package outside the permbit module.
package internal
