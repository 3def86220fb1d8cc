package cache

import "go.uber.org/zap"

// Logger wraps a *zap.Logger for the handful of ambient events the cache
// reports outside its hot path: construction-time option normalization and
// coarse prune activity. Insert/Lookup/Release never log — their cost must
// stay O(1) and allocation-free.
type Logger struct {
	z *zap.Logger
}

// NewLogger wraps z. A nil z behaves like NewNopLogger.
func NewLogger(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// NewNopLogger returns a Logger that discards everything, used as the
// default when Options.Logger is unset.
func NewNopLogger() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) shardCountRounded(requested, actual int) {
	if l == nil || requested == actual {
		return
	}
	l.z.Info("shard count rounded up to a power of two",
		zap.Int("requested", requested),
		zap.Int("actual", actual),
	)
}

func (l *Logger) pruned(shardIndex, entries, freedCharge int) {
	if l == nil || entries == 0 {
		return
	}
	l.z.Debug("shard pruned",
		zap.Int("shard", shardIndex),
		zap.Int("entries", entries),
		zap.Int("freed_charge", freedCharge),
	)
}
