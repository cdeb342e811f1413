package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerbook/ledgerbook/internal/accounts"
	"github.com/ledgerbook/ledgerbook/internal/config"
	"github.com/ledgerbook/ledgerbook/internal/voucher"
)

const redisPingTimeout = 5 * time.Second

// loadConfig reads ledgerbook.yaml from repoRoot.
func loadConfig(repoRoot string) (*config.Config, error) {
	return config.Load(filepath.Join(repoRoot, config.FileName))
}

// newValidator wires the chart, tolerance, prefixes and sequencer of a repo.
// A nil chart skips the account lookup.
func newValidator(cfg *config.Config, chart *accounts.Service, seq voucher.Sequencer) *voucher.Validator {
	opts := []voucher.Option{
		voucher.WithTolerance(cfg.Tolerance()),
		voucher.WithPrefixes(cfg.Prefixes()),
	}
	if chart != nil {
		opts = append(opts, voucher.WithAccounts(chart))
	}
	return voucher.NewValidator(seq, opts...)
}

// openSequencer builds the configured sequence backend. The returned close
// func releases any connection and is always non-nil.
func openSequencer(ctx context.Context, cfg *config.Config, repoRoot string) (voucher.Sequencer, func() error, error) {
	noop := func() error { return nil }
	sc := cfg.Vouchers.Sequence

	switch sc.Backend {
	case config.BackendMemory:
		return voucher.NewMemorySequencer(), noop, nil
	case "", config.BackendFile:
		seq, err := voucher.OpenFileSequencer(cfg.SequencePath(repoRoot))
		if err != nil {
			return nil, noop, err
		}
		return seq, noop, nil
	case config.BackendRedis:
		addr := sc.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		client := redis.NewClient(&redis.Options{Addr: addr})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("connecting to redis at %s: %w", addr, err)
		}
		return voucher.NewRedisSequencer(client, sc.KeyPrefix), client.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown sequence backend %q", sc.Backend)
}
