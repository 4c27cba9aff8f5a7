package log

// Logger is the sink every package logs through.
// inspired by https://github.com/go-kratos/kratos/blob/main/log
type Logger interface {
	Log(level Level, kvs ...interface{})
}

// With returns a Logger that prepends kvs to every entry. kvs must
// appear in pairs; a trailing odd key gets an empty value.
func With(l Logger, kvs ...interface{}) Logger {
	if len(kvs) == 0 {
		return l
	}
	if len(kvs)&1 != 0 {
		kvs = append(kvs, "")
	}
	if d, ok := l.(*logger); ok {
		prefixes := make([]interface{}, 0, len(d.prefixes)+len(kvs))
		prefixes = append(prefixes, d.prefixes...)
		prefixes = append(prefixes, kvs...)
		return &logger{l: d.l, prefixes: prefixes}
	}
	return &logger{l: l, prefixes: kvs}
}

var _ Logger = (*logger)(nil)

type logger struct {
	l        Logger
	prefixes []interface{}
}

func (l *logger) Log(level Level, kvs ...interface{}) {
	keyvals := make([]interface{}, 0, len(l.prefixes)+len(kvs))
	keyvals = append(keyvals, l.prefixes...)
	keyvals = append(keyvals, kvs...)
	l.l.Log(level, keyvals...)
}
