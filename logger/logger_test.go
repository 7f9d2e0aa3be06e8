package logger

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	flags := log.Flags()
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestFormatFieldsIsSortedByKey(t *testing.T) {
	got := formatFields(Fields{"b": 2, "a": "x", "c": 1.5})
	assert.Equal(t, "{a=x, b=2, c=1.50}", got)
}

func TestFormatFieldsEmpty(t *testing.T) {
	assert.Equal(t, "", formatFields(nil))
}

func TestDebugIsSilentUnlessEnabled(t *testing.T) {
	buf := captureLog(t)

	SetDebug(false)
	Debug("hidden", nil)
	assert.Empty(t, buf.String())

	SetDebug(true)
	defer SetDebug(false)
	Debug("shown", Fields{"k": "v"})
	assert.Contains(t, buf.String(), "[DEBUG] shown {k=v}")
}

func TestErrorIncludesCause(t *testing.T) {
	buf := captureLog(t)
	Error("extract failed", errors.New("boom"), Fields{"path": "a.mid"})
	assert.Contains(t, buf.String(), "[ERROR] extract failed: boom {path=a.mid}")
}

func TestInitWithoutDSNIsNoop(t *testing.T) {
	assert.NoError(t, Init("", "test", "dev"))
}
