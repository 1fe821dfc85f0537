package common

import (
	"io"
	"log"
	"net/http"
	"os"
	"time"

	guuid "github.com/google/uuid"
)

// Used to represent the estimator build status
const (
	BuildStatusUnknown = iota
	BuildStatusError
	BuildStatusInProgress
	BuildStatusDone
)

// GetNewLogger creates an instance of all needed loggers
func GetNewLogger() *Logger {
	return &Logger{
		Warn: log.New(os.Stderr, "[ Warn ] ", log.LstdFlags|log.Lshortfile),
		Info: log.New(os.Stderr, "[ Info ] ", log.LstdFlags|log.Lshortfile),
		Err:  log.New(os.Stderr, "[ Error ] ", log.LstdFlags|log.Lshortfile),
	}
}

// GetNopLogger creates loggers which write nothing
func GetNopLogger() *Logger {
	return &Logger{
		Warn: log.New(io.Discard, "", 0),
		Info: log.New(io.Discard, "", 0),
		Err:  log.New(io.Discard, "", 0),
	}
}

// GetRandomID generates random unique id
func GetRandomID() string {
	return guuid.NewString()
}

// Decorator wraps an http.Handler with additional functionality
type Decorator func(http.Handler) http.Handler

// Decorate handler with all specified decorators
func Decorate(h http.Handler, decorators ...Decorator) http.Handler {
	// apply decorator backwards so that they are executed in declared order
	for i := len(decorators) - 1; i >= 0; i-- {
		h = decorators[i](h)
	}
	return h
}

// Timer logs the time taken processing the request
func Timer(logger *Logger) Decorator {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			h.ServeHTTP(w, r)
			elapsed := time.Since(start)
			logger.Info.Printf("Elapsed time: %v (%v)\n", elapsed, r.URL)
		})
	}
}
