// Package progress renders download progress on a terminal.
//
// The MultiBar renderer keeps one line per download and redraws all lines on
// a fixed tick:
//
//	██████░░░░  60%  report.pdf
//	██████████ 100%  photo.jpg
//
// Other renderers cover non-interactive output: Overall shows a single
// aggregate bar, Plain prints one line per finished download, and Nop prints
// nothing.
package progress
