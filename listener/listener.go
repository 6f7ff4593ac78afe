package listener

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
)

// BindError is returned by Start when the port cannot be bound.
type BindError struct {
	Port int
	Err  error
}

func (e *BindError) Error() string { return fmt.Sprintf("bind port %d: %v", e.Port, e.Err) }

// Unwrap returns the underlying listen error.
func (e *BindError) Unwrap() error { return e.Err }

// Listener owns one bound TCP socket and dispatches every connection to Events.
type Listener struct {
	ln     net.Listener
	events Events
	host   string
}

// Option customizes a Listener.
type Option func(*Listener)

// WithEvents replaces the default Stub callbacks.
func WithEvents(e Events) Option { return func(l *Listener) { l.events = e } }

// WithHost binds to a specific interface instead of all of them.
func WithHost(host string) Option { return func(l *Listener) { l.host = host } }

// Start binds port and returns the Listener. Serve must be called to accept connections.
func Start(port int, opts ...Option) (*Listener, error) {
	l := &Listener{}
	for _, opt := range opts {
		opt(l)
	}

	if l.events == nil {
		l.events = NewStub(NewLogger(os.Stdout))
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(l.host, strconv.Itoa(port)))
	if err != nil {
		return nil, errors.WithStack(&BindError{Port: port, Err: err})
	}

	l.ln = ln

	return l, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Port returns the bound port, useful when Start was given 0.
func (l *Listener) Port() int { return l.ln.Addr().(*net.TCPAddr).Port }

// Close closes the socket. In-flight connections are not waited for.
func (l *Listener) Close() error { return l.ln.Close() }

// Serve accepts connections until the Listener is closed.
func (l *Listener) Serve() error {
	for {
		c, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}

			return errors.Wrap(err, "accept")
		}

		go l.serveConn(c)
	}
}

func (l *Listener) serveConn(c net.Conn) {
	br := bufio.NewReaderSize(c, MaxHeaderBytes)
	bw := bufio.NewWriter(c)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	for {
		req.Reset()
		resp.Reset()

		if err := readRequest(req, br, bw); err != nil {
			if errors.Is(err, io.EOF) {
				_ = c.Close()
				return
			}

			l.events.ClientError(err, c)
			closeAfterError(c)

			return
		}

		if req.Header.IsConnect() {
			l.connect(req, br, c)
			return
		}

		l.events.Request(req, resp)

		resp.SkipBody = req.Header.IsHead()

		closing := req.Header.ConnectionClose()
		if closing {
			resp.SetConnectionClose()
		} else if !req.Header.IsHTTP11() {
			resp.Header.Set(fasthttp.HeaderConnection, "keep-alive")
		}

		if err := resp.Write(bw); err != nil {
			_ = c.Close()
			return
		}

		if err := bw.Flush(); err != nil || closing {
			_ = c.Close()
			return
		}
	}
}

// readRequest parses the next request. io.EOF means the peer closed an idle connection.
// The body is read as opaque bytes, multipart bodies are not parsed.
func readRequest(req *fasthttp.Request, br *bufio.Reader, bw *bufio.Writer) error {
	if err := checkHead(br); err != nil {
		return err
	}

	if err := req.Header.Read(br); err != nil {
		return err
	}

	if req.MayContinue() {
		if _, err := bw.WriteString("HTTP/1.1 100 Continue\r\n\r\n"); err != nil {
			return errors.Wrap(err, "write 100 continue")
		}

		if err := bw.Flush(); err != nil {
			return errors.Wrap(err, "write 100 continue")
		}
	}

	if err := req.ContinueReadBody(br, 0, false); err != nil {
		return errors.Wrap(err, "read body")
	}

	return nil
}

// rstAvoidanceDelay is how long unread input is drained after a client error.
const rstAvoidanceDelay = 500 * time.Millisecond

// closeAfterError half-closes first so the 400 reaches the peer before unread input triggers a reset.
func closeAfterError(c net.Conn) {
	if tc, ok := c.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
		_ = tc.SetReadDeadline(time.Now().Add(rstAvoidanceDelay))
		_, _ = io.Copy(io.Discard, tc)
	}

	_ = c.Close()
}

// connect hands the socket to Events.Connect and then holds it until the peer hangs up.
func (l *Listener) connect(req *fasthttp.Request, br *bufio.Reader, c net.Conn) {
	head, _ := br.Peek(br.Buffered())
	head = append([]byte(nil), head...)

	l.events.Connect(req, c, head)

	_, _ = io.Copy(io.Discard, br)
	_ = c.Close()
}
