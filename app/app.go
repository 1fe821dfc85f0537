package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	cm "github.com/gasparian/lsh-kde-go/common"
	"github.com/gasparian/lsh-kde-go/kernel"
)

var (
	helloMessage = getHelloMessage()
)

// HealthCheck just checks that server is up and running;
// also gives back list of available methods
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(helloMessage)
}

func writeResponse(w http.ResponseWriter, status int, resp cm.ResponseData) {
	w.Header().Set("Content-Type", "application/json")
	jsonResp, _ := json.Marshal(resp)
	w.WriteHeader(status)
	w.Write(jsonResp)
}

func notImplemented(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotImplemented)
	w.Write([]byte(http.StatusText(http.StatusNotImplemented)))
}

func (s *KDEServer) readBody(w http.ResponseWriter, r *http.Request, target interface{}) error {
	body := io.Reader(r.Body)
	if s.Config.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.Config.MaxBodyBytes)
	}
	return json.NewDecoder(body).Decode(target)
}

// BuildHandler starts the estimator build and returns the task id
// curl -v -X POST -H "Content-Type: application/json" -d '{"vecs":[[...]], "bandwidth":1, "repetitions":100}' http://localhost:8080/build
func (s *KDEServer) BuildHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "POST":
		var input cm.BuildRequest
		err := s.readBody(w, r, &input)
		if err != nil {
			s.Logger.Err.Println("Build: " + err.Error())
			writeResponse(w, http.StatusBadRequest, cm.ResponseData{Message: err.Error()})
			return
		}
		id, err := s.StartBuild(&input)
		if err != nil {
			s.Logger.Err.Println("Build: " + err.Error())
			writeResponse(w, http.StatusBadRequest, cm.ResponseData{Message: err.Error()})
			return
		}
		writeResponse(w, http.StatusOK, cm.ResponseData{Results: id})
	default:
		notImplemented(w)
	}
}

// CheckBuildHandler returns the build status
// curl -v http://localhost:8080/check-build?id=<BUILD_TASK_ID>
func (s *KDEServer) CheckBuildHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		ids, ok := r.URL.Query()["id"]
		if !ok || len(ids) == 0 {
			s.Logger.Err.Println("Check build: task id must be specified")
			writeResponse(w, http.StatusBadRequest, cm.ResponseData{Message: "task id must be specified"})
			return
		}
		status, message := s.BuildStatus(ids[0])
		writeResponse(w, http.StatusOK, cm.ResponseData{Results: status, Message: message})
	default:
		notImplemented(w)
	}
}

func (s *KDEServer) densityHandler(w http.ResponseWriter, r *http.Request, name string, exact bool) {
	switch r.Method {
	case "POST":
		var input cm.RequestData
		err := s.readBody(w, r, &input)
		if err != nil {
			s.Logger.Err.Println(name + ": " + err.Error())
			writeResponse(w, http.StatusBadRequest, cm.ResponseData{Message: err.Error()})
			return
		}
		est := s.Estimator()
		if est == nil {
			writeResponse(w, http.StatusServiceUnavailable, cm.ResponseData{Message: "estimator is not built yet"})
			return
		}
		var result float64
		if exact {
			result, err = kernel.ExactKDE(input.Vec, est.Dataset(), est.Bandwidth())
		} else {
			result, err = est.Estimate(input.Vec)
		}
		if err != nil {
			s.Logger.Err.Println(name + ": " + err.Error())
			status := http.StatusInternalServerError
			if errors.Is(err, cm.ErrDimensionMismatch) || errors.Is(err, cm.ErrInvalidParameter) {
				status = http.StatusBadRequest
			}
			writeResponse(w, status, cm.ResponseData{Message: err.Error()})
			return
		}
		writeResponse(w, http.StatusOK, cm.ResponseData{Results: result})
	default:
		notImplemented(w)
	}
}

// EstimateHandler returns approximate density of the query
// curl -v -X POST -H "Content-Type: application/json" -d '{"vec":[...]}' http://localhost:8080/estimate
func (s *KDEServer) EstimateHandler(w http.ResponseWriter, r *http.Request) {
	s.densityHandler(w, r, "Estimate", false)
}

// ExactHandler returns density computed over the whole dataset
func (s *KDEServer) ExactHandler(w http.ResponseWriter, r *http.Request) {
	s.densityHandler(w, r, "Exact", true)
}

// StatsHandler returns stats of the current estimator
func (s *KDEServer) StatsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		est := s.Estimator()
		if est == nil {
			writeResponse(w, http.StatusServiceUnavailable, cm.ResponseData{Message: "estimator is not built yet"})
			return
		}
		writeResponse(w, http.StatusOK, cm.ResponseData{Results: est.Stats()})
	default:
		notImplemented(w)
	}
}

// Routes returns the service mux with all handlers decorated by the timer
func (s *KDEServer) Routes() http.Handler {
	mux := http.NewServeMux()
	timer := cm.Timer(s.Logger)
	mux.Handle("/", cm.Decorate(http.HandlerFunc(HealthCheck), timer))
	mux.Handle("/build", cm.Decorate(http.HandlerFunc(s.BuildHandler), timer))
	mux.Handle("/check-build", cm.Decorate(http.HandlerFunc(s.CheckBuildHandler), timer))
	mux.Handle("/estimate", cm.Decorate(http.HandlerFunc(s.EstimateHandler), timer))
	mux.Handle("/exact", cm.Decorate(http.HandlerFunc(s.ExactHandler), timer))
	mux.Handle("/stats", cm.Decorate(http.HandlerFunc(s.StatsHandler), timer))
	return mux
}
