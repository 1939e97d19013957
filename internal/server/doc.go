// Package server wires configuration, storage, the habit service and the
// HTTP API into a running process.
//
// # Lifecycle
//
//	srv, err := server.New(ctx, cfg, logger)
//	if err != nil { ... }
//	err = srv.Run(ctx) // blocks until ctx is canceled or serving fails
//
// Run listens on server.http_addr, or on the tailnet when tailscale is
// enabled, and shuts down gracefully within server.shutdown_timeout once ctx
// is done. Shutdown closes the HTTP server, the tsnet node and the store.
//
// # Endpoints
//
// Besides the API routes from package api:
//
//	GET /health        200 "OK" while the process is up
//	GET /health/ready  200 once the store answers a ping, 503 otherwise
//	GET /metrics       Prometheus exposition (path configurable, opt-in)
//
// # Tailscale
//
// With tailscale.enabled the server joins the tailnet via tsnet and serves:
//
//   - funnel: public HTTPS on :443
//   - https:  tailnet-only HTTPS on :443 using tailnet certificates
//   - otherwise plain HTTP on :80
package server
