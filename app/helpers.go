package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	cm "github.com/gasparian/lsh-kde-go/common"
	"github.com/gasparian/lsh-kde-go/kde"
	"github.com/gasparian/lsh-kde-go/lsh"
	"gonum.org/v1/gonum/floats"
)

// getHelloMessage forms a byte array contains message
func getHelloMessage() []byte {
	helloMessage := []byte(`{
		"methods": {
			"GET": {
				"/": "returns this message",
				"/check-build?id=<BUILD_TASK_ID>": "returns status of the build task",
				"/stats": "returns stats of the current estimator"
			},
			"POST": {
				"/build": "starts building the estimator over the provided points; returns task id",
				"/estimate": "returns approximate kernel density of the query point",
				"/exact": "returns exact kernel density of the query point (full scan)"
			}
	    }
	}`)
	// NOTE: ugly, but it's more convinient to update the text message by hand and then serialize to json
	var raw map[string]interface{}
	err := json.Unmarshal(helloMessage, &raw)
	out, _ := json.Marshal(raw)
	if err != nil {
		return []byte("")
	}
	return out
}

// ParseEnv forms app config by parsing the environment variables
func ParseEnv() (*Config, error) {
	intVars := map[string]int{
		"MAX_REPETITIONS": 10000,
		"MAX_POINTS":      0,
		"MAX_CUTS":        1 << 20,
		"WORKERS":         0,
		"MAX_TASKS":       1000,
		"MAX_BODY_BYTES":  64 << 20,
	}
	for key := range intVars {
		raw := os.Getenv(key)
		if len(raw) == 0 {
			continue
		}
		val, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("Env value must be an integer: %s: %w", key, err)
		}
		if val < 0 {
			return nil, fmt.Errorf("Env value can't be negative: %s", key)
		}
		intVars[key] = val
	}
	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "8080"
	}
	config := &Config{
		Port:           port,
		MaxRepetitions: intVars["MAX_REPETITIONS"],
		MaxPoints:      intVars["MAX_POINTS"],
		MaxCuts:        intVars["MAX_CUTS"],
		Workers:        intVars["WORKERS"],
		MaxTasks:       intVars["MAX_TASKS"],
		MaxBodyBytes:   int64(intVars["MAX_BODY_BYTES"]),
	}
	return config, nil
}

// NewKDEServer returns server without any estimator built
func NewKDEServer(logger *cm.Logger, config Config) *KDEServer {
	return &KDEServer{
		build:  kde.New,
		tasks:  make(map[string]*buildTask),
		Logger: logger,
		Config: config,
	}
}

// checkBuildRequest validates the request before the async build starts
func (s *KDEServer) checkBuildRequest(req *cm.BuildRequest) (kde.Config, error) {
	config := kde.DefaultConfig()
	config.Bandwidth = req.Bandwidth
	config.Repetitions = req.Repetitions
	config.Seed = req.Seed
	config.Workers = s.Config.Workers
	config.Logger = s.Logger
	if err := config.Validate(); err != nil {
		return config, err
	}
	if s.Config.MaxRepetitions > 0 && req.Repetitions > s.Config.MaxRepetitions {
		return config, cm.InvalidParameter("repetitions exceed the limit of %d", s.Config.MaxRepetitions)
	}
	if s.Config.MaxPoints > 0 && len(req.Vecs) > s.Config.MaxPoints {
		return config, cm.InvalidParameter("number of points exceeds the limit of %d", s.Config.MaxPoints)
	}
	domain, err := lsh.FitDomain(req.Vecs)
	if err != nil {
		return config, err
	}
	if s.Config.MaxCuts > 0 {
		cuts := lsh.ExpectedCuts(domain, 2*req.Bandwidth)
		if cuts > float64(s.Config.MaxCuts) {
			return config, cm.InvalidParameter(
				"data spread %v is too wide for bandwidth %v: %.0f expected cuts per repetition exceed the limit of %d",
				floats.Sum(domain.Widths()), req.Bandwidth, cuts, s.Config.MaxCuts,
			)
		}
	}
	return config, nil
}

// StartBuild registers the task and builds the estimator in background.
// The estimator of the latest started build is served, whatever order builds finish in.
func (s *KDEServer) StartBuild(req *cm.BuildRequest) (string, error) {
	config, err := s.checkBuildRequest(req)
	if err != nil {
		return "", err
	}
	id := cm.GetRandomID()
	task := &buildTask{
		status:  cm.BuildStatusInProgress,
		started: time.Now(),
	}
	s.mx.Lock()
	s.lastSeq++
	task.seq = s.lastSeq
	s.addTask(id, task)
	s.mx.Unlock()

	s.builds.Add(1)
	go func() {
		defer s.builds.Done()
		est, err := s.build(req.Vecs, config)
		s.mx.Lock()
		defer s.mx.Unlock()
		task.finished = time.Now()
		if err != nil {
			s.Logger.Err.Println("Build estimator: " + err.Error())
			task.status = cm.BuildStatusError
			task.message = err.Error()
			return
		}
		task.status = cm.BuildStatusDone
		task.estimatorID = est.ID()
		if task.seq < s.servedSeq {
			task.superseded = true
			s.Logger.Warn.Printf("Estimator %s is dropped: newer build is already served\n", est.ID())
			return
		}
		s.estimator = est
		s.servedSeq = task.seq
	}()
	return id, nil
}

// addTask remembers the task and forgets the oldest finished ones over the limit.
// Must be called with the lock held.
func (s *KDEServer) addTask(id string, task *buildTask) {
	s.tasks[id] = task
	s.taskOrder = append(s.taskOrder, id)
	if s.Config.MaxTasks <= 0 {
		return
	}
	for i := 0; len(s.tasks) > s.Config.MaxTasks && i < len(s.taskOrder); {
		old := s.taskOrder[i]
		if s.tasks[old].status == cm.BuildStatusInProgress {
			i++
			continue
		}
		delete(s.tasks, old)
		s.taskOrder = append(s.taskOrder[:i], s.taskOrder[i+1:]...)
	}
}

// Wait blocks until all started builds are finished
func (s *KDEServer) Wait() {
	s.builds.Wait()
}

// BuildStatus returns status and message of the task
func (s *KDEServer) BuildStatus(id string) (int, string) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return cm.BuildStatusUnknown, "Build task not found"
	}
	switch task.status {
	case cm.BuildStatusDone:
		if task.superseded {
			return task.status, fmt.Sprintf("Estimator %s built, but newer build is served", task.estimatorID)
		}
		return task.status, fmt.Sprintf("Estimator %s built in %v", task.estimatorID, task.finished.Sub(task.started))
	case cm.BuildStatusError:
		return task.status, fmt.Sprintf("Build error: %s", task.message)
	}
	return task.status, ""
}

// Estimator returns the current estimator, nil if nothing is built yet
func (s *KDEServer) Estimator() *kde.Estimator {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.estimator
}
