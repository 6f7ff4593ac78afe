package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "lf", in: "GET / HTTP/1.1\nHost: localhost\n", want: "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n"},
		{name: "escaped", in: `GET / HTTP/1.1\nHost: localhost`, want: "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n"},
		{name: "crlf kept", in: "GET / HTTP/1.1\r\nHost: a\r\n", want: "GET / HTTP/1.1\r\nHost: a\r\n\r\n"},
		{
			name: "body",
			in:   "POST / HTTP/1.1\nContent-Length: 2\n\nok",
			want: "POST / HTTP/1.1\r\nContent-Length: 2\r\n\r\nok",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalize(tc.in))
		})
	}
}

func TestFindContentLength(t *testing.T) {
	assert.Equal(t, 18, FindContentLength("content-length: 18"))
	assert.Equal(t, 0, FindContentLength("GET / HTTP/1.1"))
}

func TestReadInput(t *testing.T) {
	f := filepath.Join(t.TempDir(), "req.http")
	require.NoError(t, os.WriteFile(f, []byte("GET /from-file HTTP/1.1\n"), 0o600))

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "file", input: f, want: "GET /from-file HTTP/1.1\n"},
		{name: "inline", input: "GET / HTTP/1.1", want: "GET / HTTP/1.1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := (&Config{Input: tc.input}).readInput()
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))
		})
	}
}
