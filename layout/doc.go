// Package layout implements the Column and Row measure policies.
//
// A host layout system hands a policy its children as Measurables together
// with the Constraints it was given. The policy either answers one of the
// four intrinsic queries, or measures every child exactly once and returns
// its own size plus a callback that places the children.
//
// Children tag themselves with an alignment through ColumnScope or
// RowScope; the tag reaches the policy as parent data.
//
// Everything here is pure: no logging, no errors, no shared state.
package layout
