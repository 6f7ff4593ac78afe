package listener

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// MaxHeaderBytes bounds the request line plus headers, same as node's default max header size.
const MaxHeaderBytes = 16 << 10

// checkHead waits until a whole request head is buffered and rejects header lines
// without a colon, which fasthttp's header scanner would keep waiting on.
// It returns io.EOF only when the peer closed before sending anything.
func checkHead(br *bufio.Reader) error {
	for n := 1; ; n = br.Buffered() + 1 {
		b, err := br.Peek(n)
		if len(b) == 0 && err != nil {
			return err
		}

		if head, ok := requestHead(b); ok {
			return checkHeaderLines(head)
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			return errors.Errorf("request head exceeds %d bytes", MaxHeaderBytes)
		case errors.Is(err, io.EOF):
			return errors.Wrap(io.ErrUnexpectedEOF, "peer closed inside request head")
		case err != nil:
			return errors.Wrap(err, "read request head")
		}
	}
}

// requestHead returns the head up to the blank line, skipping leading empty lines.
func requestHead(b []byte) ([]byte, bool) {
	b = bytes.TrimLeft(b, "\r\n")
	if len(b) == 0 {
		return nil, false
	}

	end := -1
	if i := bytes.Index(b, []byte("\n\n")); i >= 0 {
		end = i
	}

	if i := bytes.Index(b, []byte("\n\r\n")); i >= 0 && (end < 0 || i < end) {
		end = i
	}

	if end < 0 {
		return nil, false
	}

	return b[:end], true
}

func checkHeaderLines(head []byte) error {
	lines := bytes.Split(head, []byte("\n"))
	for _, line := range lines[1:] {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(line) == 0 || line[0] == ' ' || line[0] == '\t' {
			continue
		}

		if bytes.IndexByte(line, ':') <= 0 {
			return errors.Errorf("invalid header line %q", line)
		}
	}

	return nil
}
