// Package viz provides the terminal view of a running reactor.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: steps a simulator every frame and draws it
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - [Recorder]: captures canvas frames as a GIF animation
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scenario from its seed
//	+/-   - Steps per frame
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
package viz
