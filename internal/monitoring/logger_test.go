package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got []string
	SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})
	Logf("steps=%d", 12)
	assert.Equal(t, []string{"steps=12"}, got)

	// nil installs a no-op; the previous logger must not be called.
	SetLogger(nil)
	Logf("muted")
	assert.Len(t, got, 1)
}

func TestLogf_Default(t *testing.T) {
	assert.NotNil(t, Logf)
	assert.NotPanics(t, func() { Logf("test message: %s", "value") })
}

func TestDebugf(t *testing.T) {
	original := Logf
	defer func() {
		Logf = original
		SetVerbose(false)
	}()

	calls := 0
	SetLogger(func(string, ...interface{}) { calls++ })

	SetVerbose(false)
	Debugf("hidden")
	assert.Equal(t, 0, calls)
	assert.False(t, Verbose())

	SetVerbose(true)
	Debugf("shown")
	assert.Equal(t, 1, calls)
	assert.True(t, Verbose())
}
