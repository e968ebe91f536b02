// Package params holds the parameter set that drives the contour animation.
//
// A [Parameters] value is an immutable snapshot: every edit produces a new
// value, so a frame computation never sees a half-applied change. The
// inbound UI contract maps onto:
//
//   - [Parameters.Set]: replace one field by key
//   - [Parameters.ApplyTheme]: bulk-replace the fields of a named preset
//   - [Parameters.Randomize]: draw every field from its documented range
//   - [Parameters.Reset]: restore the "Ocean Currents" defaults
//
// [Store] wraps the current snapshot for the live loop and the UI. Reads are
// lock-free; writers serialize and bump a version number that identifies the
// snapshot.
package params
