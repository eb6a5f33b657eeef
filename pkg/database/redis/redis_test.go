//go:build !integration

package redis

import (
	"testing"
	"time"

	"myStorefront/pkg/config"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.RedisConfig
		wantAddr    string
		wantTimeout time.Duration
		wantPool    int
		wantIdle    int
	}{
		{
			name:        "configured",
			cfg:         config.RedisConfig{RedisHost: "cache", RedisPort: "6380", RedisUsername: "reco", RedisDB: 2, PoolSize: 20, TimeoutMs: 250},
			wantAddr:    "cache:6380",
			wantTimeout: 250 * time.Millisecond,
			wantPool:    20,
			wantIdle:    4,
		},
		{
			name:        "zero values fall back",
			cfg:         config.RedisConfig{RedisHost: "localhost", RedisPort: "6379"},
			wantAddr:    "localhost:6379",
			wantTimeout: 500 * time.Millisecond,
			wantPool:    10,
			wantIdle:    2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := options(tt.cfg)
			if got.Addr != tt.wantAddr {
				t.Errorf("addr = %q, want %q", got.Addr, tt.wantAddr)
			}
			if got.Username != tt.cfg.RedisUsername || got.DB != tt.cfg.RedisDB {
				t.Errorf("username/db = %q/%d", got.Username, got.DB)
			}
			if got.ReadTimeout != tt.wantTimeout || got.WriteTimeout != tt.wantTimeout {
				t.Errorf("timeouts = %v/%v, want %v", got.ReadTimeout, got.WriteTimeout, tt.wantTimeout)
			}
			if got.PoolSize != tt.wantPool || got.MinIdleConns != tt.wantIdle {
				t.Errorf("pool = %d idle = %d, want %d/%d", got.PoolSize, got.MinIdleConns, tt.wantPool, tt.wantIdle)
			}
		})
	}
}
