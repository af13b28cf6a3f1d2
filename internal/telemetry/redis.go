package telemetry

import (
	"context"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MonitorRedis logs every Redis command at debug level.
func MonitorRedis(r redis.UniversalClient, log zerolog.Logger) {
	r.AddHook(redisLog{log: log.With().Str("component", "redis").Logger()})
}

type redisLog struct {
	log zerolog.Logger
}

func (h redisLog) DialHook(hook redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := hook(ctx, network, addr)
		if err != nil {
			h.log.Warn().Err(err).Str("addr", addr).Msg("redis: dial failed")
			return conn, err
		}
		h.log.Debug().Str("network", network).Str("addr", addr).Msg("redis: dialed")
		return conn, nil
	}
}

func (h redisLog) ProcessHook(hook redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := hook(ctx, cmd)
		h.log.Debug().Str("cmd", cmd.Name()).Dur("took", time.Since(start)).Err(err).Msg("redis: processed")
		return err
	}
}

func (h redisLog) ProcessPipelineHook(hook redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := hook(ctx, cmds)
		h.log.Debug().Int("cmds", len(cmds)).Dur("took", time.Since(start)).Err(err).Msg("redis: pipeline processed")
		return err
	}
}
