package backend

import (
	"context"

	"github.com/b0bbywan/go-luminous-portal/backend/screencast"
	"github.com/b0bbywan/go-luminous-portal/backend/settings"
	"github.com/b0bbywan/go-luminous-portal/config"
)

type Backend struct {
	Settings   *settings.SettingsBackend
	ScreenCast *screencast.ScreenCastBackend

	Broadcaster *Broadcaster
}

func New(ctx context.Context, cfg *config.Config) (*Backend, error) {
	var backend Backend

	s, err := settings.New(ctx, cfg.Settings)
	if err != nil {
		return nil, err
	}
	backend.Settings = s

	sc, err := screencast.New(ctx, cfg.ScreenCast)
	if err != nil {
		return nil, err
	}
	backend.ScreenCast = sc

	backend.Broadcaster = newBroadcasterFromBackend(ctx, &backend)
	return &backend, nil
}

func (b *Backend) Start() error {
	if b.Settings != nil {
		if err := b.Settings.Start(); err != nil {
			return err
		}
	}

	if b.ScreenCast != nil {
		if err := b.ScreenCast.Start(); err != nil {
			return err
		}
	}

	return nil
}

func (b *Backend) Close() {
	if b.Settings != nil {
		b.Settings.Close()
	}
	if b.ScreenCast != nil {
		b.ScreenCast.Close()
	}
}
