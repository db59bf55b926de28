package store

import (
	"context"
	"fmt"

	"newsfeed/internal/config"
)

// Open returns the backend selected by cfg.
func Open(ctx context.Context, cfg *config.Reader) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverRedis:
		r, err := NewRedis(ctx, RedisOptions{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.DriverSQLite, "":
		s, err := OpenSQLite(cfg.StorePath())
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
