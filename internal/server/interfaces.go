package server

// Server is the lifecycle shared by the HTTP API and the gRPC health
// transport, and by the aggregate returned from [NewServer].
type Server interface {
	// RunServer serves until the process is asked to stop.
	RunServer()

	// Shutdown stops accepting requests and waits for in-flight ones.
	Shutdown()
}
