package kv

import (
	"errors"
)

var (
	negativeIndexErr = errors.New("Point index must be non-negative")
)

// KVStore is a map-backed Store.
// It is filled once by a single writer and then only read, so it holds no lock.
type KVStore struct {
	m         map[string][]int
	size      int
	maxBucket int
}

// NewKVStore creates store pre-sized for the expected number of points
func NewKVStore(sizeHint int) *KVStore {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &KVStore{
		m: make(map[string][]int, sizeHint),
	}
}

// SetHash appends point index to the code's bucket
func (s *KVStore) SetHash(code string, idx int) error {
	if idx < 0 {
		return negativeIndexErr
	}
	bucket := append(s.m[code], idx)
	s.m[code] = bucket
	s.size++
	if len(bucket) > s.maxBucket {
		s.maxBucket = len(bucket)
	}
	return nil
}

// Bucket returns indices stored under the code, nil if there are none
func (s *KVStore) Bucket(code string) []int {
	return s.m[code]
}

// Len returns number of stored indices
func (s *KVStore) Len() int {
	return s.size
}

// Buckets returns number of non-empty buckets
func (s *KVStore) Buckets() int {
	return len(s.m)
}

// MaxBucket returns size of the largest bucket
func (s *KVStore) MaxBucket() int {
	return s.maxBucket
}
