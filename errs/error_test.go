package errs

import (
	"errors"
	"fmt"
	"log"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogErrorUsesInjectedSink(t *testing.T) {
	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	defer SetLogger(log.Printf)

	r := httptest.NewRequest("GET", "/feed", nil)
	LogError(r, errors.New("boom"))

	assert.Equal(t, "[http] error: GET /feed: boom", got)
}

func TestSetLoggerIgnoresNil(t *testing.T) {
	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	defer SetLogger(log.Printf)

	SetLogger(nil)

	r := httptest.NewRequest("GET", "/feed", nil)
	LogError(r, errors.New("boom"))

	assert.NotEmpty(t, got)
}
