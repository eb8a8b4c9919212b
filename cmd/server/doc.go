// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

/*
Package main is the entry point for the Pigment recommendation server.

Pigment recommends paintings from a five-colour taste signal. A request is
routed to the nearest colour clusters, scored against a fixed reference
catalog, penalised for past exposure, sampled, diversified, and returned
as a slate of k paintings.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("pigment")
	├── DataSupervisor ("data-layer")
	│   └── Exposure maintenance (badger backend only)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with the configured level and format
 3. Catalog: cluster palettes and colour data CSVs, loaded once
 4. Exposure store: memory, badger, or redis behind a circuit breaker
 5. Engine: candidate generation with MMR and quota rerankers
 6. HTTP: chi router with CORS, rate limiting, and Prometheus metrics

# Configuration

Commonly set variables:

	COLOUR_DATA_PATH=/data/colour_data_with_clusters.csv
	CLUSTER_PALETTES_PATH=/data/cluster_palettes.csv
	EXPOSURE_BACKEND=badger
	EXPOSURE_BADGER_PATH=/data/exposure
	HTTP_PORT=8050
	LOG_LEVEL=info

See internal/config for the complete list.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor context. The HTTP server drains
in-flight requests within SHUTDOWN_TIMEOUT, then the exposure store
is closed so badger can flush its value log.

# Example Usage

	docker run -d \
	  -v ./data:/data \
	  -e EXPOSURE_BACKEND=badger \
	  -p 8050:8050 \
	  ghcr.io/tomtom215/pigment

	curl -s localhost:8050/api/v1/recommendations \
	  -H 'Content-Type: application/json' \
	  -d @taste.json
*/
package main
