package launcher

import (
	"context"

	"github.com/oshokin/llc-launcher/internal/steam"
)

// Game locates and starts the game.
type Game interface {
	Locate(ctx context.Context) (string, error)
	Launch(ctx context.Context) error
}

// SteamGame is a game installed through the Steam client.
type SteamGame struct {
	// AppID is the Steam application id.
	AppID uint32
}

// Locate implements Game.
func (g SteamGame) Locate(context.Context) (string, error) {
	root, err := steam.Root()
	if err != nil {
		return "", err
	}

	return steam.FindGamePath(root, g.AppID)
}

// Launch implements Game.
func (g SteamGame) Launch(ctx context.Context) error {
	root, err := steam.Root()
	if err != nil {
		return err
	}

	return steam.Launch(ctx, root, g.AppID)
}
