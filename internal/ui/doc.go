// Package ui hosts an element tree in a Bubble Tea program.
//
// The host renders buttons, text inputs and text nodes with lipgloss, keeps a
// focus ring over the controls that are currently rendered, and turns key and
// mouse messages into element events:
//   - Enter or space on a button: mousedown, mouseup, then click
//   - Enter on a text input: keydown with the Enter key
//   - mouse motion: mouseenter / mouseleave as the pointer crosses controls
//   - mouse press and release: mousedown, mouseup, and click when both land on
//     the same control
//
// Pointer events are dispatched from Update, in order. Clicks and Enter
// commits run their callbacks and may block, so they are dispatched from
// tea.Cmd goroutines and never stall rendering.
package ui
