package main

import (
	"fmt"
	"io"

	"projector/internal/trace"
)

// setupTracing builds the tracer selected by the trace flags. The cleanup
// function flushes and closes it; when failed is set and the tracer keeps a
// ring buffer, the buffered events are dumped to errOut first.
func setupTracing(opts *rootOptions, errOut io.Writer) (trace.Tracer, func(failed bool), error) {
	level, err := trace.ParseLevel(opts.traceLevel)
	if err != nil {
		return nil, nil, err
	}
	if level == trace.LevelOff {
		return trace.Nop, func(bool) {}, nil
	}
	mode, err := trace.ParseMode(opts.traceMode)
	if err != nil {
		return nil, nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: opts.traceOutput,
		RingSize:   opts.traceRing,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	cleanup := func(failed bool) {
		if ring := trace.FindRing(tracer); failed && ring != nil {
			fmt.Fprintln(errOut, "trace: last events before failure:")
			if err := ring.Dump(errOut, trace.FormatText); err != nil {
				fmt.Fprintf(errOut, "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(errOut, "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(errOut, "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}
