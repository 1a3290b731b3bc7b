package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"merngen/internal/gateway/app"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to initialize gateway: %v", err)
	}

	served := make(chan error, 1)
	go func() { served <- a.Start() }()

	select {
	case err := <-served:
		// Listening failed before any signal arrived.
		if err != nil {
			log.Printf("Server error: %v", err)
			stop()
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	log.Println("Shutting down Mern Gen proxy...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		return
	}
	<-served
	log.Println("Server exiting")
}
