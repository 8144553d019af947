package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/Paul200287/GradeTracker/auth"
	"github.com/Paul200287/GradeTracker/clientstore"
	"github.com/Paul200287/GradeTracker/internal/config"
	"github.com/Paul200287/GradeTracker/server"
	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %s\n", err)
	}

	c := config.New()
	setupLogging(c)

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if c.IsDevelopment() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	if err := config.Validate(c); err != nil {
		return err
	}
	if _, fromEnv := c.GetSessionSecret(); !fromEnv {
		log.Warn().Msg("SESSION_SECRET not set; using a random secret, sessions end on restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildDeps(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup()

	handler, err := server.New(c, deps)
	if err != nil {
		return err
	}

	displayAppname(c.GetAppName())
	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      c.GetBackendTimeout() + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(srv)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	return shutdown(srv)
}

// buildDeps wires the collaborators chosen by configuration.
func buildDeps(ctx context.Context, c config.Config) (server.Deps, func(), error) {
	cleanup := func() {}
	httpClient := &http.Client{Timeout: c.GetBackendTimeout()}
	deps := server.Deps{HTTPClient: httpClient}

	switch c.GetClientStore() {
	case config.ClientStoreRedis:
		client, err := clientstore.DialRedis(ctx, c.GetRedisAddr(), c.GetRedisPassword(), c.GetRedisDB())
		if err != nil {
			return server.Deps{}, cleanup, err
		}
		cleanup = func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close redis client")
			}
		}
		deps.ClientStorage = clientstore.NewRedisStorage(client,
			clientstore.WithKeyPrefix("console"),
			clientstore.WithItemTTL(c.GetSessionTTL()),
		)
		log.Info().Str("addr", c.GetRedisAddr()).Msg("Client token store: redis")
	default:
		deps.ClientStorage = clientstore.NewMemoryStorage()
		log.Info().Msg("Client token store: memory")
	}

	var verifier auth.Verifier = auth.NewBackendVerifier(c.GetBackendURL(), httpClient, c.GetBackendTimeout())
	if c.GetDevLogin() {
		dev, err := auth.NewDevVerifier()
		if err != nil {
			return server.Deps{}, cleanup, err
		}
		verifier = dev
		log.Warn().Str("email", auth.DevEmail).Msg("Development login enabled; the backend is not consulted for sign-in")
	}
	deps.Login = auth.NewService(verifier)

	if c.MicrosoftEnabled() {
		provider, err := auth.NewMicrosoftProvider(ctx, auth.MicrosoftSettings{
			ClientID:     c.GetMicrosoftClientID(),
			ClientSecret: c.GetMicrosoftClientSecret(),
			Tenant:       c.GetMicrosoftTenant(),
			RedirectURL:  c.GetMicrosoftRedirectURI(),
		})
		if err != nil {
			return server.Deps{}, cleanup, fmt.Errorf("microsoft provider: %w", err)
		}
		deps.Microsoft = provider
		log.Info().Str("tenant", c.GetMicrosoftTenant()).Msg("Microsoft sign-in enabled")
	}

	return deps, cleanup, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
