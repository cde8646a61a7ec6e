package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/moviebuzz/internal/app"
)

func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the terminal and wait for quit or a termination signal
	<-wait                      // Wait for the application to finish
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
