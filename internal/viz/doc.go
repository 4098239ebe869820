// Package viz renders a live cockpit view in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Flight]: real-time flight view with keyboard control of the surfaces
//   - [Canvas]: Braille-based pixel canvas drawing the attitude indicator
//
// # Key Bindings
//
//	W/S   - Elevator (nose down / up)
//	A/D   - Ailerons (bank left / right)
//	Z/X   - Rudder (yaw left / right)
//	+/-   - Throttle
//	0     - Center all surfaces
//	Space - Pause/Resume
//	R     - Reset to the initial state
//	?     - Show help overlay
package viz
