package auxlib

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// LoggerName is the name attached to every record emitted by the auxlib logger.
const LoggerName = "auxlib"

var (
	loggerOnce sync.Once
	logger     zerolog.Logger
	sink       = &fanout{}
)

// fanout copies each record to every attached writer and drops it when none are
// attached.
type fanout struct {
	mu      sync.RWMutex
	writers []io.Writer
}

func (f *fanout) Write(p []byte) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, w := range f.writers {
		if _, err := w.Write(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (f *fanout) attach(w io.Writer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writers = append(f.writers, w)
}

func (f *fanout) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writers = nil
}

// Logger returns the named auxlib logger. Until a writer is attached every record it
// receives is discarded, so libraries can log freely without configuring anything
// for the embedding application.
func Logger() *zerolog.Logger {
	loggerOnce.Do(func() {
		logger = zerolog.New(sink).With().Timestamp().Str("logger", LoggerName).Logger()
	})
	return &logger
}

// AttachWriter routes auxlib log records to w in addition to any writer already
// attached. It does not change the global zerolog logger or level.
func AttachWriter(w io.Writer) {
	if w == nil {
		return
	}
	sink.attach(w)
}

// DetachWriters removes every attached writer, returning the logger to its silent
// default.
func DetachWriters() {
	sink.reset()
}
