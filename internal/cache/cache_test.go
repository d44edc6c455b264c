package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(true)
	etag := c.Set("stats:1:", []byte(`{"a":1}`), time.Minute)
	data, got, ok := c.Get("stats:1:")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if string(data) != `{"a":1}` || got != etag {
		t.Fatalf("unexpected data %q etag %q", data, got)
	}
}

func TestDisabledCacheNeverHits(t *testing.T) {
	c := New(false)
	c.Set("k", []byte("v"), time.Minute)
	if _, _, ok := c.Get("k"); ok {
		t.Fatalf("disabled cache must not return hits")
	}
}

func TestExpiry(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), -time.Second)
	if _, _, ok := c.Get("k"); ok {
		t.Fatalf("expired entry must not be returned")
	}
}

func TestDeletePrefix(t *testing.T) {
	c := New(true)
	c.Set("stats:1:a", []byte("x"), time.Minute)
	c.Set("stats:1:b", []byte("y"), time.Minute)
	c.Set("stats:2:a", []byte("z"), time.Minute)
	c.DeletePrefix("stats:1:")
	if _, _, ok := c.Get("stats:1:a"); ok {
		t.Fatalf("prefix delete missed stats:1:a")
	}
	if _, _, ok := c.Get("stats:2:a"); !ok {
		t.Fatalf("prefix delete removed unrelated key")
	}
}

func TestETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("payload"))
	if !CheckETagMatch(etag, etag) {
		t.Fatalf("identical etags must match")
	}
	if !CheckETagMatch("*", etag) {
		t.Fatalf("wildcard must match")
	}
	if CheckETagMatch("", etag) {
		t.Fatalf("empty If-None-Match must not match")
	}
}
