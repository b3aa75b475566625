// Package stopwatch implements the pausable elapsed-time engine: pure
// read-on-demand arithmetic over a start instant, with lap recording and
// MM:SS.ss formatting. No background task is involved.
package stopwatch
