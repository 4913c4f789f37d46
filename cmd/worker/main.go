package main

import (
	"context"
	"log"

	"github.com/verdavida/lawncare/internal/app/worker"
)

func main() {
	if err := worker.Run(context.Background()); err != nil {
		log.Fatalf("notification worker exited: %v", err)
	}
}
