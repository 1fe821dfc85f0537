package client

import (
	"net/http"

	"github.com/gasparian/lsh-kde-go/kde"
)

// Config holds necessary constants for initiating the KDEClient
type Config struct {
	ServerAddress string
	// Timeout in milliseconds, 0 means no timeout
	Timeout int
}

type methods struct {
	HealthCheck string
	Build       string
	CheckBuild  string
	Estimate    string
	Exact       string
	Stats       string
}

// KDEClient holds data needed to perform custom http requests
type KDEClient struct {
	ServerAddress string
	Client        http.Client
	Methods       methods
}

// statsResponse is used for unpacking the stats handler response
// without type assertions over the map
type statsResponse struct {
	Results *kde.Stats `json:"results"`
	Message string    `json:"message"`
}
