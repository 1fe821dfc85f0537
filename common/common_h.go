package common

import (
	"log"
)

// Logger holds several logger instances with different prefixes
type Logger struct {
	Warn *log.Logger
	Info *log.Logger
	Err  *log.Logger
}

// ResponseData holds the response data of any handler
type ResponseData struct {
	Results interface{} `json:"results,omitempty"`
	Message string      `json:"message,omitempty"`
}

// RequestData used for unpacking the query payload
type RequestData struct {
	Vec []float64 `json:"vec,omitempty"`
}

// BuildRequest holds the dataset and estimator params for the build handler
type BuildRequest struct {
	Vecs        [][]float64 `json:"vecs"`
	Bandwidth   float64     `json:"bandwidth"`
	Repetitions int         `json:"repetitions"`
	Seed        uint64      `json:"seed,omitempty"`
}
