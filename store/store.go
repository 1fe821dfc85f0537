package store

// Store holds one repetition's hash table: the buckets of point indices
// which share the same LSH code.
// Points themselves are stored once, in the dataset the indices refer to,
// to not duplicate vectors across the tables.
type Store interface {
	SetHash(code string, idx int) error
	// Bucket returns indices sharing the code; the slice must not be modified
	Bucket(code string) []int
	// Len returns number of stored indices
	Len() int
	// Buckets returns number of non-empty buckets
	Buckets() int
	// MaxBucket returns size of the largest bucket
	MaxBucket() int
}
