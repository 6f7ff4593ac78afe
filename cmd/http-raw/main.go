package main

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bingoohuang/gg/pkg/flagparse"
	"github.com/bingoohuang/gg/pkg/ss"
	"github.com/pkg/errors"
)

const defaultInput = "GET / HTTP/1.1\nHost: localhost\n"

type Config struct {
	Addr    string `val:"127.0.0.1:8000" usage:"connecting address like 127.0.0.1:8000"`
	Input   string `usage:"http request filename or direct input content (default a plain GET /)"`
	Raw     bool   `usage:"send input bytes as is, without CRLF normalization (eg. to provoke a 400)"`
	Timeout string `val:"3s" usage:"read timeout, the reply is printed when the peer closes or the timeout hits"`
}

func main() {
	c := &Config{}
	flagparse.Parse(c)

	if c.Input == "" {
		c.Input = defaultInput
	}

	if err := c.client(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (c *Config) client() error {
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return errors.Wrapf(err, "parse timeout %s", c.Timeout)
	}

	conn, err := net.Dial("tcp", c.Addr)
	if err != nil {
		return errors.Wrapf(err, "dial %s", c.Addr)
	}
	defer conn.Close() // 关闭TCP连接

	data, err := c.readInput()
	if err != nil {
		return errors.Wrapf(err, "read input")
	}

	return c.send(conn, data, timeout)
}

func (c *Config) send(conn net.Conn, data []byte, timeout time.Duration) error {
	s := string(data)
	if !c.Raw {
		s = normalize(s)
	}

	fmt.Printf("Request: %s\n", ss.Jsonify(s))

	if _, err := conn.Write([]byte(s)); err != nil { // 发送数据
		return errors.Wrap(err, "write")
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return errors.Wrap(err, "set deadline")
	}

	var reply []byte
	buf := [512]byte{}
	for {
		n, err := conn.Read(buf[:])
		reply = append(reply, buf[:n]...)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				fmt.Println("(connection still open)")
			}
			break
		}
	}

	fmt.Printf("Response: %s\n", ss.Jsonify(string(reply)))

	return nil
}

// normalize turns typed or escaped newlines into CRLF and terminates the head.
func normalize(data string) string {
	s := strings.TrimSpace(strings.NewReplacer(`\r\n`, "\r\n", `\n`, "\r\n", "\r\n", "\r\n", "\n", "\r\n").Replace(data))
	if v := FindContentLength(s); v == 0 {
		s += "\r\n\r\n"
	}

	return s
}

func (c *Config) readInput() ([]byte, error) {
	data, err := os.ReadFile(c.Input)
	if err == nil {
		return data, nil
	}

	if os.IsNotExist(err) {
		return []byte(c.Input), nil
	}

	return data, err
}

var re = regexp.MustCompile(`(?i)Content-Length:\s*(\d+)`)

func FindContentLength(s string) int {
	contentLength := 0
	if subs := re.FindStringSubmatch(s); len(subs) > 0 {
		contentLength, _ = strconv.Atoi(subs[1])
	}
	return contentLength
}
