// Command consolectl is the terminal console for the subjects backend. It
// keeps the backend access token in a state file between invocations.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/Paul200287/GradeTracker/internal/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const appDir = "subjects-console"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %s\n", err)
	}

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	backend := config.Backend{}
	a := &cli{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		backendURL: backend.GetBackendURL(),
		timeout:    backend.GetBackendTimeout(),
	}
	os.Exit(a.Run(ctx, os.Args[1:]))
}
