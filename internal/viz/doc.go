// Package viz provides the live terminal view of the morphing contours.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live view, ticking a [live.Loop] and drawing its frames
//   - [Canvas]: Braille-based pixel canvas with per-cell ink
//   - [Surface]: adapts a Canvas to the frame painter
//   - [Palette]: panel colors derived from the current theme
//
// # Key Bindings
//
//	Space      - Pause/Resume animation
//	Up/Down    - Select parameter
//	Left/Right - Tune selected parameter
//	T          - Cycle color themes
//	R          - Randomize parameters
//	D          - Reset to defaults
//	E          - Export a video loop
//	X          - Cancel the running export
//	?          - Show help overlay
//
// # Exporting
//
// Exports run in the background on an export.Exporter. Status updates reach
// the view through a [StatusFeed], which keeps only the newest update.
package viz
