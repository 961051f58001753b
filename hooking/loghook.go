package hooking

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// A LogHook writes one structured line for every hook position it sees.
type LogHook struct {
	Logger log.FieldLogger
	Level  log.Level
}

// NewLogHook creates a LogHook that logs at debug level.
func NewLogHook(logger log.FieldLogger) *LogHook {
	if logger == nil {
		logger = log.StandardLogger()
	}

	return &LogHook{Logger: logger, Level: log.DebugLevel}
}

// Func logs the position and the item.
func (h *LogHook) Func(ctx HookCtx) {
	entry := h.Logger.WithField("pos", ctx.Pos.Name)

	if named, ok := ctx.Item.(interface{ Name() string }); ok {
		entry = entry.WithField("item", named.Name())
	} else if ctx.Item != nil {
		entry = entry.WithField("item", fmt.Sprint(ctx.Item))
	}

	if ctx.Detail != nil {
		entry = entry.WithField("detail", ctx.Detail)
	}

	switch h.Level {
	case log.TraceLevel:
		entry.Trace("hook")
	case log.DebugLevel:
		entry.Debug("hook")
	case log.WarnLevel:
		entry.Warn("hook")
	default:
		entry.Info("hook")
	}
}
