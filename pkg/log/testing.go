// Testing utilities: a Logger that captures JSON lines in memory.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// capture is the buffer and level shared by a TestLogger and every logger
// derived from it with With.
type capture struct {
	mu    sync.Mutex
	buf   *bytes.Buffer
	level Level
}

// TestLogger records every entry as one JSON object per line.
//
//	logger, buf := log.NewTestLogger(log.LevelDebug)
//	ds, err := dataset.New(cfg, dataset.WithLogger(logger))
//	// buf now holds the "dataset loaded" entry
type TestLogger struct {
	c      *capture
	fields map[string]interface{}
}

// NewTestLogger returns a logger capturing entries at level and above, and
// the buffer it writes to.
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &TestLogger{
		c:      &capture{buf: buf, level: level},
		fields: map[string]interface{}{},
	}, buf
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.write(LevelDebug, msg, fields) }

func (t *TestLogger) Info(msg string, fields ...any) { t.write(LevelInfo, msg, fields) }

func (t *TestLogger) Warn(msg string, fields ...any) { t.write(LevelWarn, msg, fields) }

func (t *TestLogger) Error(msg string, fields ...any) { t.write(LevelError, msg, fields) }

// With returns a logger sharing the buffer whose entries carry fields.
func (t *TestLogger) With(fields ...any) Logger {
	merged := make(map[string]interface{}, len(t.fields)+len(fields)/2)
	for k, v := range t.fields {
		merged[k] = v
	}
	addFields(merged, fields)
	return &TestLogger{c: t.c, fields: merged}
}

func (t *TestLogger) Enabled(ctx context.Context, level Level) bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	return t.c.level <= level
}

func (t *TestLogger) write(level Level, msg string, fields []any) {
	if !t.Enabled(context.Background(), level) {
		return
	}
	entry := map[string]interface{}{
		"level":   level.String(),
		"message": msg,
	}
	for k, v := range t.fields {
		entry[k] = v
	}
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			entry[ErrAttrKey] = err.Error()
			fields = fields[1:]
		}
	}
	addFields(entry, fields)

	line, err := json.Marshal(entry)
	if err != nil {
		line = []byte(fmt.Sprintf(`{"level":%q,"message":%q,"marshal_error":%q}`, level.String(), msg, err.Error()))
	}
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	t.c.buf.Write(append(line, '\n'))
}

func addFields(dst map[string]interface{}, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if err, ok := fields[i+1].(error); ok {
			dst[key] = err.Error()
			continue
		}
		dst[key] = fields[i+1]
	}
}

// GetBuffer returns the capture buffer.
func (t *TestLogger) GetBuffer() *bytes.Buffer {
	return t.c.buf
}

// GetLogEntries decodes the captured lines. JSON numbers come back as float64.
func (t *TestLogger) GetLogEntries() ([]map[string]interface{}, error) {
	t.c.mu.Lock()
	raw := t.c.buf.String()
	t.c.mu.Unlock()

	var entries []map[string]interface{}
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ContainsMessage reports whether any captured line contains message.
func (t *TestLogger) ContainsMessage(message string) bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	return strings.Contains(t.c.buf.String(), message)
}

// ContainsField reports whether some entry has key set to value.
//
//	testLogger.ContainsField(log.ViewKey, log.ViewOneHot)
//	testLogger.ContainsField(log.SamplesKey, 3.0)
func (t *TestLogger) ContainsField(key string, value interface{}) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if v, ok := entry[key]; ok && v == value {
			return true
		}
	}
	return false
}

// Clear drops everything captured so far.
func (t *TestLogger) Clear() {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	t.c.buf.Reset()
}

// TestLoggerProvider is a LoggerProvider handing out TestLoggers that share
// one buffer.
type TestLoggerProvider struct {
	logger *TestLogger
}

// NewTestLoggerProvider returns a provider and its capture buffer.
func NewTestLoggerProvider(level Level) (*TestLoggerProvider, *bytes.Buffer) {
	logger, buf := NewTestLogger(level)
	return &TestLoggerProvider{logger: logger}, buf
}

func (p *TestLoggerProvider) GetLogger() Logger {
	return p.logger
}

func (p *TestLoggerProvider) GetLoggerWithName(name string) Logger {
	return p.logger.With(ComponentKey, name)
}

// SetLevel changes the level of every logger handed out so far.
func (p *TestLoggerProvider) SetLevel(level Level) {
	p.logger.c.mu.Lock()
	defer p.logger.c.mu.Unlock()
	p.logger.c.level = level
}

func (p *TestLoggerProvider) GetBuffer() *bytes.Buffer {
	return p.logger.GetBuffer()
}
