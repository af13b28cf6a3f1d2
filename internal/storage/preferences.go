package storage

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
)

// Preferences stores the audio flag. Only an explicit "false" disables audio.
type Preferences struct {
	kv  KV
	key string
	log zerolog.Logger
}

func NewPreferences(kv KV, key string, log zerolog.Logger) *Preferences {
	if key == "" {
		key = DefaultAudioKey
	}
	return &Preferences{kv: kv, key: key, log: log}
}

func (p *Preferences) AudioEnabled(ctx context.Context) bool {
	data, ok, err := p.kv.Get(ctx, p.key)
	if err != nil {
		p.log.Warn().Err(err).Str("key", p.key).Msg("read audio preference")
		return true
	}
	if !ok {
		return true
	}
	return string(data) != "false"
}

func (p *Preferences) SetAudioEnabled(ctx context.Context, enabled bool) error {
	return p.kv.Set(ctx, p.key, []byte(strconv.FormatBool(enabled)))
}
