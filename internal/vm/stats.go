package vm

import "log/slog"

// Stats counts the work done by one VM.
type Stats struct {
	Instructions uint64
	Calls        uint64 // frames pushed, including the entry call
	TailCalls    uint64 // self-calls that reused their frame
	NativeCalls  uint64
	PeakDepth    int
}

func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("instructions", s.Instructions),
		slog.Uint64("calls", s.Calls),
		slog.Uint64("tail_calls", s.TailCalls),
		slog.Uint64("native_calls", s.NativeCalls),
		slog.Int("peak_depth", s.PeakDepth),
	)
}
