package main

import (
	"flag"
	"net/http"

	"go.uber.org/zap"

	"peerpass/internal/pubsub"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	hub := pubsub.NewServer(log)
	log.Info("relay listening", zap.String("addr", *addr))
	if err := http.ListenAndServe(*addr, hub); err != nil {
		log.Fatal("relay stopped", zap.Error(err))
	}
}
