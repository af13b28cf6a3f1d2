package memory

import (
	"context"
	"sync"
)

// KV is a process-local key-value store. Values are copied in and out.
type KV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewKV() *KV {
	return &KV{data: make(map[string][]byte)}
}

func (k *KV) Get(_ context.Context, key string) ([]byte, bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (k *KV) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	k.mu.Lock()
	k.data[key] = v
	k.mu.Unlock()
	return nil
}
