package listener

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger_PlainLines(t *testing.T) {
	var buf bytes.Buffer

	log := NewLogger(&buf)
	log.Info("New request!")
	log.WithField("port", 8000).Infof("Server started at port %d", 8000)
	log.Info(errors.New("parse error"))
	log.Debug("hidden")

	assert.Equal(t, "New request!\nServer started at port 8000\nparse error\n", buf.String())
}
