package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gasparian/lsh-kde-go/app"
	cm "github.com/gasparian/lsh-kde-go/common"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := cm.GetNewLogger()
	config, err := app.ParseEnv()
	if err != nil {
		logger.Err.Fatal(err)
	}
	kdeServer := app.NewKDEServer(logger, *config)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           kdeServer.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info.Printf("Starting server on port %s", config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Err.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Err.Println("Shutdown: " + err.Error())
	}
	// NOTE: pending builds are cpu-bound, just let them finish
	kdeServer.Wait()
}
