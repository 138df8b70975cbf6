package compat

import (
	"fmt"

	"github.com/lixenwraith/sinklog"
)

// emit writes msg tagged with the source name. Fields are attached as a
// scope that lives only for this entry; the logger lock is held throughout so
// entries from other goroutines never pick the scope up.
func emit(l sinklog.Logger, level sinklog.Level, source, msg string, fields []sinklog.KeyValue, exception bool) {
	if !l.IsEnabled(level) {
		return
	}
	id := sinklog.EventID{Name: source}
	if len(fields) == 0 {
		_ = l.LogMessage(level, msg, id, exception)
		return
	}

	l.Lock()
	defer l.Unlock()
	sc, err := l.BeginScope(fields)
	if err != nil {
		_ = l.LogMessage(level, msg, id, exception)
		return
	}
	_ = l.LogMessage(level, msg, id, exception)
	_ = sc.Close()
}

// keyValues pairs up alternating keys and values. A dangling key gets a nil value.
func keyValues(keysAndValues []any) []sinklog.KeyValue {
	if len(keysAndValues) == 0 {
		return nil
	}
	out := make([]sinklog.KeyValue, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		kv := sinklog.KeyValue{Key: fmt.Sprint(keysAndValues[i])}
		if i+1 < len(keysAndValues) {
			kv.Value = keysAndValues[i+1]
		}
		out = append(out, kv)
	}
	return out
}
