package cache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"
)

func TestNewMemory(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Stop()

	if c == nil {
		t.Fatal("NewMemory() returned nil")
	}
	if c.items == nil {
		t.Fatal("NewMemory() returned cache with nil items map")
	}
	if c.ttl != time.Minute {
		t.Errorf("NewMemory() ttl = %v, want %v", c.ttl, time.Minute)
	}
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	defer c.Stop()

	if err := c.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := c.Get(ctx, "key1")
	if !ok {
		t.Error("Get() returned false for existing key")
	}
	if string(got) != "value1" {
		t.Errorf("Get() = %s, want %s", got, "value1")
	}
}

func TestMemoryCache_Get_NotFound(t *testing.T) {
	c := NewMemory(time.Minute)
	defer c.Stop()

	got, ok := c.Get(context.Background(), "nonexistent")
	if ok {
		t.Error("Get() should return false for non-existent key")
	}
	if got != nil {
		t.Errorf("Get() should return nil for non-existent key, got %v", got)
	}
}

func TestMemoryCache_Get_Expired(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(50 * time.Millisecond)
	defer c.Stop()

	c.Set(ctx, "key1", []byte("value1"), 0)

	if _, ok := c.Get(ctx, "key1"); !ok {
		t.Error("Get() should return true for fresh key")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get(ctx, "key1"); ok {
		t.Error("Get() should return false for expired key")
	}
}

func TestMemoryCache_CustomTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	defer c.Stop()

	c.Set(ctx, "key1", []byte("value1"), 50*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get(ctx, "key1"); ok {
		t.Error("Get() should return false after custom TTL expired")
	}
}

func TestMemoryCache_CustomTTL_LongerThanDefault(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(50 * time.Millisecond)
	defer c.Stop()

	c.Set(ctx, "key1", []byte("value1"), time.Minute)
	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get(ctx, "key1"); !ok {
		t.Error("Get() should return true when custom TTL hasn't expired")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	defer c.Stop()

	c.Set(ctx, "key1", []byte("value1"), 0)
	c.Delete(ctx, "key1")

	if _, ok := c.Get(ctx, "key1"); ok {
		t.Error("Get() should return false after Delete()")
	}
	if err := c.Delete(ctx, "nonexistent"); err != nil {
		t.Errorf("Delete(nonexistent) error = %v", err)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	defer c.Stop()

	for _, key := range []string{"key1", "key2", "key3"} {
		c.Set(ctx, key, []byte(key), 0)
	}

	c.Clear(ctx)

	for _, key := range []string{"key1", "key2", "key3"} {
		if _, ok := c.Get(ctx, key); ok {
			t.Errorf("Get(%q) should return false after Clear()", key)
		}
	}
}

func TestMemoryCache_StoredValueIsCopied(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	defer c.Stop()

	buf := []byte("abc")
	c.Set(ctx, "key", buf, 0)
	buf[0] = 'x'

	got, _ := c.Get(ctx, "key")
	if string(got) != "abc" {
		t.Errorf("cache shares caller buffer: %s", got)
	}
	got[1] = 'y'
	again, _ := c.Get(ctx, "key")
	if string(again) != "abc" {
		t.Errorf("cache shares returned buffer: %s", again)
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(ctx, "shared-key", []byte(fmt.Sprint(idx*100+j)), 0)
			}
		}(i)
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Get(ctx, "shared-key")
			}
		}()
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Delete(ctx, "shared-key")
				time.Sleep(time.Millisecond)
			}
		}()
	}

	wg.Wait()
}

func TestMemoryCache_StopTwice(t *testing.T) {
	c := NewMemory(time.Minute)
	c.Stop()
	c.Stop()
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	defer c.Stop()

	type snapshot struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := SetJSON(ctx, c, "snap", snapshot{Name: "test", Count: 100}, 0); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var got snapshot
	if !GetJSON(ctx, c, "snap", &got) {
		t.Fatal("GetJSON() returned false")
	}
	if got.Name != "test" || got.Count != 100 {
		t.Errorf("GetJSON() = %+v", got)
	}

	c.Set(ctx, "corrupt", []byte("{"), 0)
	if GetJSON(ctx, c, "corrupt", &got) {
		t.Error("GetJSON() should report false for corrupt data")
	}
	if GetJSON(ctx, c, "missing", &got) {
		t.Error("GetJSON() should report false for a miss")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping test: REDIS_ADDR not set")
	}

	ctx := context.Background()
	c, err := NewRedis(RedisConfig{Addr: addr, Prefix: "fpviraq-test:"}, time.Minute)
	if err != nil {
		t.Skipf("Skipping test: unable to connect to redis: %v", err)
	}
	defer c.Close()
	defer c.Clear(ctx)

	if err := c.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok := c.Get(ctx, "key1")
	if !ok || string(got) != "value1" {
		t.Errorf("Get() = %s, %v", got, ok)
	}

	if err := c.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := c.Get(ctx, "key1"); ok {
		t.Error("Get() should return false after Delete()")
	}
}

func TestImplementsInterface(t *testing.T) {
	var _ Cache = (*MemoryCache)(nil)
	var _ Cache = (*RedisCache)(nil)
}
