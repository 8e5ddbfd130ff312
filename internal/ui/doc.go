// Package ui provides the terminal styling for command output.
//
// A [Palette] groups the named [lipgloss.Style] values used across commands;
// the package-level render helpers apply the default palette so command code
// never touches lipgloss directly. Progress updates from the sync engine are
// rendered as single status lines via [RenderUpdate].
package ui
