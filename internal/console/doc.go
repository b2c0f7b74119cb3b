// Package console renders simulation results for the terminal: the result
// table through lipgloss and, for DP, a text line chart sized to the
// terminal width.
package console
