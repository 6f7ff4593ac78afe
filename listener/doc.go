// Package listener is a bare HTTP/1.1 listener that answers every request
// with a fixed 200 "ok", replies to malformed input with a raw 400 line and
// ignores CONNECT. Connections are parsed with fasthttp's request parser on
// a plain accept loop, one goroutine per connection.
package listener
