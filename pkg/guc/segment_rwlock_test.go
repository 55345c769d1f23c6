package guc

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alphadose/haxmap"
)

func TestWithLockSerializesSameKey(t *testing.T) {
	sl := NewSegmentRwLock[string](16, nil)

	var counter int
	var wg sync.WaitGroup

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, _ = sl.WithLock("conv:1", func() (any, error) {
				counter++
				return nil, nil
			})
		}()
	}

	wg.Wait()

	if counter != 200 {
		t.Fatalf("expected 200 increments, got %d", counter)
	}
}

func TestWithLockManualDoubleCheck(t *testing.T) {
	sl := NewSegmentRwLock[string](8, nil)

	m := make(map[string]int)
	var initCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, _ = sl.WithLockManual("k", func(lock *sync.RWMutex) (any, error) {
				lock.RLock()
				_, ok := m["k"]
				lock.RUnlock()

				if ok {
					return nil, nil
				}

				lock.Lock()
				defer lock.Unlock()

				if _, ok = m["k"]; ok {
					return nil, nil
				}

				initCount.Add(1)
				m["k"] = 1

				return nil, nil
			})
		}()
	}

	wg.Wait()

	if got := initCount.Load(); got != 1 {
		t.Fatalf("lazy init ran %d times, want 1", got)
	}
}

func TestCeilPowOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 100: 128, 128: 128}
	for in, want := range cases {
		if got := ceilPowOfTwo(in); got != want {
			t.Errorf("ceilPowOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}

// 对比: 分段锁+map vs haxmap, 控制器注册表场景(读多写少)
func BenchmarkSegmentLockMapMixed(b *testing.B) {
	const capacity = 100000

	sl := NewSegmentRwLock[int](128, func(k int) uint64 { return uint64(k) })
	m := make(map[int]int, capacity)
	for i := 0; i < capacity; i++ {
		m[i] = i
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var localCounter uint64
		for pb.Next() {
			localCounter++
			key := int(localCounter % capacity)
			if localCounter%10 < 3 {
				_, _ = sl.WithLock(key, func() (any, error) {
					m[key] = int(localCounter)
					return nil, nil
				})
			} else {
				sl.PureRead(key, func() {
					_ = m[key]
				})
			}
		}
	})
}

func BenchmarkHaxmapMixed(b *testing.B) {
	const capacity = 100000

	m := haxmap.New[int, int](capacity)
	for i := 0; i < capacity; i++ {
		m.Set(i, i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var localCounter uint64
		for pb.Next() {
			localCounter++
			key := int(localCounter % capacity)
			// 70% 读, 30% 写
			if localCounter%10 < 3 {
				m.Set(key, int(localCounter))
			} else {
				_, _ = m.Get(key)
			}
		}
	})
}
