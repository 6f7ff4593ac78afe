// nolint gomnd
package main

import (
	"flag"
	"io"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:8000", "server get url")
	sleep := flag.String("sleep", "1s", "sleep span")
	n := flag.Int("n", 0, "number of probes, 0 for endless")
	retry := flag.Bool("retry", false, "retry if fail")
	keepalive := flag.Bool("keepalive", true, "keep alive or not")
	dump := flag.Bool("dump", false, "dump every response")

	flag.Parse()

	sleepSpan, err := time.ParseDuration(*sleep)
	if err != nil {
		log.Warnf("fail to parse %s error %v", *sleep, err)

		sleepSpan = 1 * time.Second
	}

	log.Infof("server %v", *server)
	log.Infof("sleep %v", sleepSpan)
	log.Infof("keepalive %v", *keepalive)
	log.Infof("retry mode %v", *retry)

	getFn := newGetter(*retry, *keepalive)

	var s summary

	for i := 0; *n == 0 || i < *n; i++ {
		start := time.Now()
		size, err := probe(getFn, *server, *dump)
		s.add(size, time.Since(start), err)

		if err != nil {
			log.Errorf("probe %d failed: %v", i+1, err)
		}

		if *n == 0 || i+1 < *n {
			time.Sleep(sleepSpan)
		}
	}

	log.Info(s.String())

	if s.failed > 0 {
		log.Exit(1)
	}
}

func newGetter(retry, keepalive bool) func(url string) (*http.Response, error) {
	if retry {
		transport := cleanhttp.DefaultPooledTransport()
		transport.DisableKeepAlives = !keepalive
		transport.MaxIdleConnsPerHost = -1

		client := &retryablehttp.Client{
			HTTPClient:   &http.Client{Transport: transport},
			RetryWaitMin: 1 * time.Second,
			RetryWaitMax: 30 * time.Second,
			RetryMax:     3,
			CheckRetry:   retryablehttp.DefaultRetryPolicy,
			Backoff:      retryablehttp.DefaultBackoff,
		}

		return client.Get
	}

	transport := cleanhttp.DefaultPooledTransport()
	transport.DisableKeepAlives = !keepalive
	client := &http.Client{Transport: transport}

	return client.Get
}

// probe issues one GET and verifies the fixed 200 text/html "ok" reply.
func probe(getFn func(string) (*http.Response, error), url string, dump bool) (int, error) {
	response, err := getFn(url)
	if err != nil {
		return 0, errors.Wrap(err, "get")
	}
	defer response.Body.Close()

	if dump {
		dumpResponse, _ := httputil.DumpResponse(response, false)
		log.Infof("dumpResponse %s", string(dumpResponse))
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return len(body), errors.Wrap(err, "read body")
	}

	return len(body), check(response, body)
}

func check(response *http.Response, body []byte) error {
	if response.StatusCode != http.StatusOK {
		return errors.Errorf("status %d, want 200", response.StatusCode)
	}

	if ct := response.Header.Get("Content-Type"); ct != "text/html" {
		return errors.Errorf("content type %q, want text/html", ct)
	}

	if string(body) != "ok" {
		return errors.Errorf("body %q, want ok", body)
	}

	return nil
}

type summary struct {
	ok, failed int
	bytes      uint64
	total      time.Duration
}

func (s *summary) add(size int, cost time.Duration, err error) {
	if err != nil {
		s.failed++
	} else {
		s.ok++
	}

	s.bytes += uint64(size)
	s.total += cost
}

func (s summary) String() string {
	probes := s.ok + s.failed
	if probes == 0 {
		return "no probes"
	}

	return "probes " + humanize.Comma(int64(probes)) +
		", ok " + humanize.Comma(int64(s.ok)) +
		", failed " + humanize.Comma(int64(s.failed)) +
		", body " + humanize.Bytes(s.bytes) +
		", avg " + (s.total / time.Duration(probes)).String()
}
