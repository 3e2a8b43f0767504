// Package widget implements interactive controls on top of package dom.
//
// Button is the core: an Enabled/Disabled state machine whose click cycle
// disables the control, fans out to every Click callback concurrently, joins
// them and lets an OutcomePolicy decide whether to re-enable. TextInput
// detects the Enter keystroke; Hideable is the shared show/hide toggle.
//
// There is no cancellation. Once a click cycle starts it runs until every
// callback returns, so a callback that never returns leaves its button
// disabled.
package widget
