// Package dom provides a small in-process element tree: tagged nodes with
// attributes, an inline style, hidden/disabled flags, children and event
// listeners addressed by the id returned when they are attached.
//
// It stands in for a browser document. Controls in package widget own one
// element each and are the only code that attaches listeners to it; hosts
// (package ui) render the tree and dispatch input events into it.
package dom
