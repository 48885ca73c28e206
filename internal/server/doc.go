// Package server runs the scrapegate transports.
//
// The HTTP API and the gRPC health endpoint are started side by side and
// stopped together when the process receives SIGINT or SIGTERM. The health
// status is refreshed from the store while the gRPC server runs.
package server
