// Package viz renders robot models and joint traces for the terminal.
//
//   - [LinkTable], [JointTable], [RunTable]: lipgloss tables
//   - [PlotJoint]: commanded vs sensed position as an asciigraph chart
//   - [Canvas]: Braille canvas for a top-down view of the link bodies
//
// Colors come from the current [Theme].
package viz
