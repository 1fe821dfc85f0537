package kv

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gasparian/lsh-kde-go/store"
)

var (
	wrongBucketErr       = errors.New("Returned wrong bucket")
	bucketShouldBeEmpty  = errors.New("Bucket should be empty")
	wrongCountersErr     = errors.New("Store counters are wrong")
	negativeIndexPassErr = errors.New("Negative index must be rejected")
)

var _ store.Store = (*KVStore)(nil)

func TestKvStore(t *testing.T) {
	s := NewKVStore(4)

	t.Run("SetHash", func(t *testing.T) {
		for i, code := range []string{"a", "b", "a", "a", "c"} {
			err := s.SetHash(code, i)
			if err != nil {
				t.Fatal(err)
			}
		}
		if !reflect.DeepEqual(s.Bucket("a"), []int{0, 2, 3}) {
			t.Error(wrongBucketErr)
		}
		if !reflect.DeepEqual(s.Bucket("c"), []int{4}) {
			t.Error(wrongBucketErr)
		}
		if len(s.Bucket("missing")) != 0 {
			t.Error(bucketShouldBeEmpty)
		}
		if s.Len() != 5 || s.Buckets() != 3 || s.MaxBucket() != 3 {
			t.Error(wrongCountersErr)
		}
		if s.SetHash("a", -1) == nil {
			t.Error(negativeIndexPassErr)
		}
	})

}
