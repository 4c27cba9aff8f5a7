package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// NewStdLogger writes entries as logfmt-style lines to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{
		w: w,
		pool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

var _ Logger = (*stdLogger)(nil)

type stdLogger struct {
	mu   sync.Mutex
	w    io.Writer
	pool *sync.Pool
}

func (l *stdLogger) Log(level Level, kvs ...interface{}) {
	if len(kvs)&1 != 0 {
		kvs = append(kvs, "")
	}
	buf := l.pool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		l.pool.Put(buf)
	}()

	buf.WriteString("level=")
	buf.WriteString(level.String())
	buf.WriteString(" ts=")
	buf.WriteString(time.Now().Format(time.RFC3339))
	for i := 0; i < len(kvs); i += 2 {
		_, _ = fmt.Fprintf(buf, " %v=%v", kvs[i], kvs[i+1])
	}
	buf.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(buf.Bytes())
}
