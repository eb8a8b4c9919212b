// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

/*
Package supervisor provides process supervision for Pigment using suture v4.

The tree isolates background storage work from request serving:

	RootSupervisor ("pigment")
	├── DataSupervisor ("data-layer")
	│   └── MaintenanceService (when the exposure store supports it)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing maintenance loop is restarted with backoff inside the data layer
and never interrupts the HTTP server.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

Supervisor events (start, stop, failure, backoff) are logged through
sutureslog on the slog bridge of the application logger.
*/
package supervisor
