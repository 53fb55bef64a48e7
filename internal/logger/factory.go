package logger

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Badger adapts a charm logger to badger's Logger interface
// (Errorf, Warningf, Infof, Debugf).
type Badger struct {
	l *log.Logger
}

// ForBadger wraps l, or a "badger" prefixed default logger when l is nil.
func ForBadger(l *log.Logger) *Badger {
	if l == nil {
		l = New("badger")
	}
	return &Badger{l: l.WithPrefix("badger")}
}

// badger terminates most of its messages with a newline
func trim(format string, args []any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}

func (b *Badger) Errorf(format string, args ...any)   { b.l.Error(trim(format, args)) }
func (b *Badger) Warningf(format string, args ...any) { b.l.Warn(trim(format, args)) }
func (b *Badger) Infof(format string, args ...any)    { b.l.Debug(trim(format, args)) }
func (b *Badger) Debugf(format string, args ...any)   { b.l.Debug(trim(format, args)) }
