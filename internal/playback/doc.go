// Package playback turns a recorded step log into per-frame slot visuals.
//
// An Engine is armed with the initial array and the log a sorter produced,
// then driven by Tick with the frame delta. It consumes at most one step per
// tick, animates swaps with an eased slide, decays compare highlights and
// finishes with a left-to-right completion sweep. Every duration is a base
// value divided by the speed multiplier, and pausing or changing speed never
// loses elapsed time.
package playback
