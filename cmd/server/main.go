// Command server runs the word content HTTP service.
package main

import (
	"context"
	"log"

	"github.com/jelyk/wortschatz-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("application failed: %v", err)
	}
}
