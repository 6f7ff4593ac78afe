package listener

import (
	"net"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

// Events receives the three connection events of a Listener.
// Callbacks run on the connection's goroutine and may be called concurrently.
type Events interface {
	// Request fills resp for a fully parsed request.
	Request(req *fasthttp.Request, resp *fasthttp.Response)
	// ClientError is called when the peer sent something unparsable.
	// The connection is closed once it returns.
	ClientError(err error, conn net.Conn)
	// Connect is called for a CONNECT request. head holds bytes the peer sent
	// after the request head. conn must not be read from; the Listener drains
	// and closes it when the peer hangs up.
	Connect(req *fasthttp.Request, conn net.Conn, head []byte)
}

// BadRequest is written verbatim to a peer that sent a malformed request.
const BadRequest = "HTTP/1.1 400 Bad Request\r\n\r\n"

// Stub answers every request with 200 text/html "ok".
type Stub struct {
	log logrus.FieldLogger
}

// NewStub creates a Stub logging to log.
func NewStub(log logrus.FieldLogger) *Stub { return &Stub{log: log} }

// Request implements Events.
func (s *Stub) Request(_ *fasthttp.Request, resp *fasthttp.Response) {
	s.log.Info("New request!")

	resp.SetStatusCode(fasthttp.StatusOK)
	resp.Header.SetContentType("text/html")
	resp.SetBodyString("ok")
}

// ClientError implements Events.
func (s *Stub) ClientError(err error, conn net.Conn) {
	s.log.Info(err)

	_, _ = conn.Write([]byte(BadRequest))
}

// Connect implements Events.
func (s *Stub) Connect(*fasthttp.Request, net.Conn, []byte) {
	s.log.Info("OnConnect")
}
