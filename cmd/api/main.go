package main

import (
	"context"
	"log"

	"github.com/verdavida/lawncare/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("lawn care API exited: %v", err)
	}
}
