package guc

import (
	"fmt"
	"hash/fnv"
	"sync"
)

// SegmentRwLock 分段读写锁, 按key哈希到固定条带, 降低锁竞争
type SegmentRwLock[K comparable] struct {
	segments []*sync.RWMutex
	mask     uint64
	hashFn   func(K) uint64
}

func NewSegmentRwLock[K comparable](strip int, hashFn func(K) uint64) *SegmentRwLock[K] {
	strip = ceilPowOfTwo(strip)

	segments := make([]*sync.RWMutex, strip)
	for i := range segments {
		segments[i] = &sync.RWMutex{}
	}

	if hashFn == nil {
		hashFn = defaultHash[K]
	}

	return &SegmentRwLock[K]{
		segments: segments,
		mask:     uint64(strip - 1),
		hashFn:   hashFn,
	}
}

// WithLock 持有排他锁执行fn
func (sl *SegmentRwLock[K]) WithLock(key K, fn func() (any, error)) (any, error) {
	lock := sl.lockOf(key)

	lock.Lock()
	defer lock.Unlock()

	return fn()
}

// WithLockManual 锁的获取/释放由fn自己控制, 适合先读后写的double check
func (sl *SegmentRwLock[K]) WithLockManual(key K, fn func(lock *sync.RWMutex) (any, error)) (any, error) {
	return fn(sl.lockOf(key))
}

// PureRead 只读访问
func (sl *SegmentRwLock[K]) PureRead(key K, fn func()) {
	lock := sl.lockOf(key)

	lock.RLock()
	defer lock.RUnlock()

	fn()
}

func (sl *SegmentRwLock[K]) lockOf(key K) *sync.RWMutex {
	return sl.segments[sl.hashFn(key)&sl.mask]
}

func defaultHash[K comparable](key K) uint64 {
	h := fnv.New64a()

	switch kv := any(key).(type) {
	case string:
		_, _ = h.Write([]byte(kv))
	default:
		_, _ = fmt.Fprint(h, kv)
	}

	return h.Sum64()
}

func ceilPowOfTwo(n int) int {
	if n <= 1 {
		return 1
	}

	v := 1
	for v < n {
		v <<= 1
	}

	return v
}
