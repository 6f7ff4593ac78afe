package main

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bingoohuang/okstub/listener"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeAgainstStub(t *testing.T) {
	logger, _ := test.NewNullLogger()

	l, err := listener.Start(0, listener.WithHost("127.0.0.1"), listener.WithEvents(listener.NewStub(logger)))
	require.NoError(t, err)
	go func() { _ = l.Serve() }()
	defer l.Close()

	url := "http://" + l.Addr().String() + "/"

	for _, retry := range []bool{false, true} {
		size, err := probe(newGetter(retry, true), url, true)
		require.NoError(t, err)
		assert.Equal(t, 2, size)
	}
}

func TestCheck(t *testing.T) {
	okHeader := http.Header{"Content-Type": []string{"text/html"}}

	testCases := []struct {
		name            string
		status          int
		header          http.Header
		body            string
		wantErrContains string
	}{
		{name: "ok", status: 200, header: okHeader, body: "ok"},
		{name: "status", status: 500, header: okHeader, body: "ok", wantErrContains: "status 500"},
		{name: "content type", status: 200, header: http.Header{}, body: "ok", wantErrContains: "content type"},
		{name: "body", status: 200, header: okHeader, body: "ok\n", wantErrContains: "body"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := check(&http.Response{StatusCode: tc.status, Header: tc.header}, []byte(tc.body))
			if tc.wantErrContains == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErrContains)
		})
	}
}

func TestSummary(t *testing.T) {
	var s summary
	assert.Equal(t, "no probes", s.String())

	s.add(2, 10*time.Millisecond, nil)
	s.add(0, 30*time.Millisecond, errors.New("boom"))

	assert.Equal(t, "probes 2, ok 1, failed 1, body 2 B, avg 20ms", s.String())
}
