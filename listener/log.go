package listener

import (
	"io"

	"github.com/sirupsen/logrus"
)

// PlainFormatter prints the bare message, one line per entry, like a console log.
type PlainFormatter struct{}

// Format implements logrus.Formatter.
func (PlainFormatter) Format(e *logrus.Entry) ([]byte, error) {
	return append([]byte(e.Message), '\n'), nil
}

// NewLogger returns an info level logger writing plain lines to out.
func NewLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(PlainFormatter{})
	l.SetLevel(logrus.InfoLevel)

	return l
}
