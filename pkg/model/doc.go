// Package model defines the records exchanged between the declaration
// pipeline and renderers. A script run produces an ordered []Delta; each delta
// either opens a layout block or carries an element (a widget such as
// TimeInput, or an Exception used for warnings and script failures).
//
// Optional fields carry an explicit presence bit. Renderers and tests must use
// Optional.Has to decide whether a value was sent; an empty string is a valid
// payload distinct from "absent".
package model
