// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

/*
Package services provides suture.Service wrappers for Pigment components.

Each wrapper translates a component lifecycle into suture's context-aware
Serve pattern and names itself through fmt.Stringer for supervisor logs.

# Available Services

HTTP Server (HTTPServerService):
  - Binds the listener inside Serve so port conflicts are restarted with backoff
  - Graceful shutdown on context cancellation with a configurable timeout

Exposure Maintenance (MaintenanceService):
  - Calls exposure.Maintainer.Maintain on a fixed interval
  - Failed runs are logged and retried on the next tick

# Usage

	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second, logger))
	if m, ok := store.(exposure.Maintainer); ok {
	    tree.AddDataService(services.NewMaintenanceService(m, cfg.Exposure.GCInterval, logger))
	}
*/
package services
