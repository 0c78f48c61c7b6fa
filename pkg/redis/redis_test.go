package redis

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (IRedis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewWithClient(client), mr
}

func TestSetGetDelete(t *testing.T) {
	r, _ := newTestClient(t)
	ctx := context.Background()

	if err := r.Set(ctx, "k", []byte{0x00, 0xFF, 0x10}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := r.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string([]byte{0x00, 0xFF, 0x10}) {
		t.Errorf("Get: got %v", got)
	}

	if err := r.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := r.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
}

func TestDeleteByPrefix(t *testing.T) {
	r, mr := newTestClient(t)
	ctx := context.Background()

	for _, k := range []string{"a:1", "a:1:photo:0", "a:1:radiograph", "b:1"} {
		if err := r.Set(ctx, k, []byte("v"), time.Minute); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}

	if err := r.DeleteByPrefix(ctx, "a:1"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}

	keys := mr.Keys()
	if len(keys) != 1 || keys[0] != "b:1" {
		t.Errorf("remaining keys: got %v, want [b:1]", keys)
	}
}

func TestExpire(t *testing.T) {
	r, mr := newTestClient(t)
	ctx := context.Background()

	r.Set(ctx, "k", []byte("v"), time.Minute)
	if err := r.Expire(ctx, time.Hour, "k"); err != nil {
		t.Fatalf("Expire failed: %v", err)
	}
	if ttl := mr.TTL("k"); ttl != time.Hour {
		t.Errorf("TTL: got %v, want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := r.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after expiry: got %v, want ErrNotFound", err)
	}
}

func TestUpdateAppliesEveryConcurrentChange(t *testing.T) {
	r, mr := newTestClient(t)
	ctx := context.Background()

	r.Set(ctx, "counter", []byte("0"), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.Update(ctx, "counter", time.Hour, func(current []byte) ([]byte, error) {
				n, err := strconv.Atoi(string(current))
				if err != nil {
					return nil, err
				}
				return []byte(strconv.Itoa(n + 1)), nil
			})
			if err != nil {
				t.Errorf("Update failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := r.Get(ctx, "counter")
	if string(got) != "8" {
		t.Errorf("counter: got %s, want 8", got)
	}
	if ttl := mr.TTL("counter"); ttl != time.Hour {
		t.Errorf("TTL: got %v, want 1h", ttl)
	}
}

func TestUpdateMissingKey(t *testing.T) {
	r, mr := newTestClient(t)

	err := r.Update(context.Background(), "missing", time.Minute, func(current []byte) ([]byte, error) {
		return current, nil
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if mr.Exists("missing") {
		t.Error("Update must not create a missing key")
	}
}

func TestUpdateReturnsCallbackError(t *testing.T) {
	r, _ := newTestClient(t)
	ctx := context.Background()
	r.Set(ctx, "k", []byte("v"), time.Minute)

	boom := errors.New("boom")
	err := r.Update(ctx, "k", time.Minute, func([]byte) ([]byte, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want callback error", err)
	}
	if got, _ := r.Get(ctx, "k"); string(got) != "v" {
		t.Errorf("value changed after failed update: %s", got)
	}
}

func TestAppendBoundedNeverExceedsLimit(t *testing.T) {
	r, mr := newTestClient(t)
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		refused  int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.AppendBounded(ctx, "list", [][]byte{[]byte(strconv.Itoa(i))}, 10, time.Minute)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, ErrLimitExceeded):
				refused++
			default:
				t.Errorf("AppendBounded failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if accepted != 10 || refused != 2 {
		t.Errorf("accepted=%d refused=%d, want 10 and 2", accepted, refused)
	}
	n, err := r.ListLen(ctx, "list")
	if err != nil || n != 10 {
		t.Errorf("ListLen: got %d, %v", n, err)
	}
	if ttl := mr.TTL("list"); ttl != time.Minute {
		t.Errorf("TTL: got %v, want 1m", ttl)
	}
}

func TestAppendBoundedKeepsOrder(t *testing.T) {
	r, _ := newTestClient(t)
	ctx := context.Background()

	n, err := r.AppendBounded(ctx, "list", [][]byte{[]byte("a"), []byte("b")}, 3, time.Minute)
	if err != nil || n != 2 {
		t.Fatalf("first append: got %d, %v", n, err)
	}
	if _, err := r.AppendBounded(ctx, "list", [][]byte{[]byte("c"), []byte("d")}, 3, time.Minute); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("second append: got %v, want ErrLimitExceeded", err)
	}

	vals, err := r.ListRange(ctx, "list")
	if err != nil {
		t.Fatalf("ListRange failed: %v", err)
	}
	if len(vals) != 2 || string(vals[0]) != "a" || string(vals[1]) != "b" {
		t.Errorf("list: got %q", vals)
	}

	empty, err := r.ListRange(ctx, "none")
	if err != nil || len(empty) != 0 {
		t.Errorf("missing list: got %q, %v", empty, err)
	}
	if ok, _ := r.Exists(ctx, "list"); !ok {
		t.Error("Exists: list should exist")
	}
	if ok, _ := r.Exists(ctx, "none"); ok {
		t.Error("Exists: missing key reported present")
	}
}
