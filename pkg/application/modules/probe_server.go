package modules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bazaar/pkg/probe"
)

type ProbeServer struct {
	Name          string
	Version       string
	ListenAddress string
	// Checks: зависимости, без которых сервис не готов принимать трафик.
	Checks map[string]probe.Check
}

func (p ProbeServer) Run(ctx context.Context, g *errgroup.Group) {
	probeServer := probe.NewServer(
		p.ListenAddress,
		probe.Options{
			Name:    p.Name,
			Version: p.Version,
		},
	)

	for name, check := range p.Checks {
		probeServer = probeServer.WithCheck(name, check)
	}

	g.Go(func() error {
		if err := probeServer.Run(ctx); err != nil {
			return fmt.Errorf("probeServer.Run: %w", err)
		}

		return nil
	})
}
