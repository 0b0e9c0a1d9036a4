// Package api serves a small read-only HTTP status API for the bridge.
//
// The endpoints report component health, bridge and recorder counters, the
// registered payload adapters and the recorded change log of a single
// characteristic:
//
//	GET /api/v1/health
//	GET /api/v1/status
//	GET /api/v1/adapters
//	GET /api/v1/history/{aid}/{service}/{characteristic}?limit=N
//
// The server follows the same lifecycle pattern as the other components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
