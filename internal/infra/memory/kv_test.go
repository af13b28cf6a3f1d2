package memory

import (
	"context"
	"testing"
)

func TestKVGetSet(t *testing.T) {
	ctx := context.Background()
	kv := NewKV()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	value := []byte("payload")
	if err := kv.Set(ctx, "k", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	value[0] = 'X'

	got, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != "payload" {
		t.Fatalf("expected stored copy, got %q", got)
	}
}
