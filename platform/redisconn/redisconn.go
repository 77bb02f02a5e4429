// Package redisconn turns the REDIS_URL settings into go-redis options shared
// by the roster cache and the job queue.
package redisconn

import (
	"crypto/tls"
	"errors"
	"fmt"

	"realty_crm_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned by Options when REDIS_URL is empty.
var ErrNotConfigured = errors.New("redis url not configured")

// Options parses REDIS_URL. REDIS_TLS_INSECURE forces TLS and skips
// certificate verification, for managed Redis behind self-signed certs.
func Options(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.GetRedisURL() == "" {
		return nil, ErrNotConfigured
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		} else {
			opt.TLSConfig = opt.TLSConfig.Clone()
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}
	return opt, nil
}

// NewClient opens a client, or returns nil, nil when Redis is not configured.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := Options(cfg)
	if errors.Is(err, ErrNotConfigured) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}
