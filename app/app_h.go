package app

import (
	"sync"
	"time"

	cm "github.com/gasparian/lsh-kde-go/common"
	"github.com/gasparian/lsh-kde-go/kde"
)

// Config holds general constants
type Config struct {
	Port           string
	MaxRepetitions int
	MaxPoints      int
	// MaxCuts bounds the expected number of hasher cuts per repetition, 0 means no limit
	MaxCuts int
	Workers int
	// MaxTasks bounds the number of remembered build tasks, 0 means no limit
	MaxTasks     int
	MaxBodyBytes int64
}

// buildTask holds state of the single estimator build
type buildTask struct {
	seq         uint64
	status      int
	message     string
	estimatorID string
	superseded  bool
	started     time.Time
	finished    time.Time
}

type buildFunc func(dataset [][]float64, config kde.Config) (*kde.Estimator, error)

// KDEServer holds the current estimator and the build tasks
type KDEServer struct {
	mx        sync.RWMutex
	builds    sync.WaitGroup
	build     buildFunc
	estimator *kde.Estimator
	// seq of the task which built the served estimator
	servedSeq uint64
	lastSeq   uint64
	tasks     map[string]*buildTask
	taskOrder []string
	Logger    *cm.Logger
	Config    Config
}
