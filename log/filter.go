package log

import "go.uber.org/zap/zapcore"

// FilterFieldsCore wraps core so that fields whose key is in dropKeys are
// never encoded, including fields attached through With.
func FilterFieldsCore(core zapcore.Core, dropKeys ...string) zapcore.Core {
	drop := make(map[string]struct{}, len(dropKeys))
	for _, key := range dropKeys {
		if key != "" {
			drop[key] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return core
	}
	return &filteringCore{Core: core, drop: drop}
}

type filteringCore struct {
	zapcore.Core
	drop map[string]struct{}
}

func (c *filteringCore) With(fields []zapcore.Field) zapcore.Core {
	return &filteringCore{Core: c.Core.With(c.keep(fields)), drop: c.drop}
}

func (c *filteringCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *filteringCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(ent, c.keep(fields))
}

func (c *filteringCore) keep(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, 0, len(fields))
	for _, field := range fields {
		if _, ok := c.drop[field.Key]; !ok {
			out = append(out, field)
		}
	}
	return out
}
