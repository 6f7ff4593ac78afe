package main

import (
	"os"

	"github.com/bingoohuang/okstub/listener"
)

func main() {
	log := listener.NewLogger(os.Stdout)

	port, err := listener.PortFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	l, err := listener.Start(port, listener.WithEvents(listener.NewStub(log)))
	if err != nil {
		log.Fatal(err)
	}

	log.Infof("Server started at port %d", l.Port())

	log.Fatal(l.Serve())
}
