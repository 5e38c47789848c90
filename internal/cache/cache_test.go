// internal/cache/cache_test.go
package cache

import (
	"errors"
	"testing"
	"time"
)

type lookupKey struct {
	Project string
	Server  string
	Admin   string
}

func TestGetOrComputeMemoizes(t *testing.T) {
	c := New[lookupKey, string](120 * time.Second)
	key := lookupKey{"parks", "http://admin.example.com", "admin"}

	calls := 0
	compute := func() (string, error) {
		calls++
		return "members", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCompute(key, compute)
		if err != nil {
			t.Fatalf("GetOrCompute error: %v", err)
		}
		if v != "members" {
			t.Fatalf("GetOrCompute = %q, want members", v)
		}
	}
	if calls != 1 {
		t.Errorf("compute invoked %d times within TTL, want 1", calls)
	}
}

func TestGetOrComputeDistinctKeys(t *testing.T) {
	c := New[lookupKey, string](120 * time.Second)

	calls := 0
	compute := func() (string, error) {
		calls++
		return "v", nil
	}

	c.GetOrCompute(lookupKey{"parks", "s", "admin"}, compute)
	c.GetOrCompute(lookupKey{"gardens", "s", "admin"}, compute)
	c.GetOrCompute(lookupKey{"parks", "s", "other-admin"}, compute)

	if calls != 3 {
		t.Errorf("compute invoked %d times for 3 distinct keys, want 3", calls)
	}
}

func TestGetOrComputeExpires(t *testing.T) {
	c := New[string, int](120 * time.Second)

	current := time.Unix(1000, 0)
	c.now = func() time.Time { return current }

	calls := 0
	compute := func() (int, error) {
		calls++
		return calls, nil
	}

	if v, _ := c.GetOrCompute("k", compute); v != 1 {
		t.Fatalf("first call = %d, want 1", v)
	}

	// Just inside the TTL: still a hit.
	current = current.Add(119 * time.Second)
	if v, _ := c.GetOrCompute("k", compute); v != 1 {
		t.Errorf("call inside TTL = %d, want cached 1", v)
	}

	// Past the TTL: recompute and overwrite.
	current = current.Add(2 * time.Second)
	if v, _ := c.GetOrCompute("k", compute); v != 2 {
		t.Errorf("call past TTL = %d, want recomputed 2", v)
	}
	if calls != 2 {
		t.Errorf("compute invoked %d times, want 2", calls)
	}
}

func TestFailureIsNotCached(t *testing.T) {
	c := New[string, string](120 * time.Second)

	boom := errors.New("remote down")
	calls := 0
	compute := func() (string, error) {
		calls++
		if calls == 1 {
			return "", boom
		}
		return "recovered", nil
	}

	if _, err := c.GetOrCompute("k", compute); !errors.Is(err, boom) {
		t.Fatalf("first call err = %v, want %v", err, boom)
	}

	v, err := c.GetOrCompute("k", compute)
	if err != nil {
		t.Fatalf("second call err = %v, want nil", err)
	}
	if v != "recovered" {
		t.Errorf("second call = %q, want recovered", v)
	}
	if calls != 2 {
		t.Errorf("compute invoked %d times, want 2 (failure must not be cached)", calls)
	}
}

func TestHitMissCounters(t *testing.T) {
	c := New[string, string](120 * time.Second)

	var hits, misses int
	c.Hit = func() { hits++ }
	c.Miss = func() { misses++ }

	compute := func() (string, error) { return "v", nil }
	c.GetOrCompute("k", compute)
	c.GetOrCompute("k", compute)
	c.GetOrCompute("k", compute)

	if misses != 1 || hits != 2 {
		t.Errorf("hits=%d misses=%d, want hits=2 misses=1", hits, misses)
	}
}
