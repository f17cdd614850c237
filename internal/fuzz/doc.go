// Package fuzztests houses Go fuzz harnesses for the inputs projector reads
// from outside: model snapshots, configuration files and type names given
// on the command line. The harnesses only guard against panics and hangs;
// rejecting input with an error is always fine.
package fuzztests
