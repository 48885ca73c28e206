package server

import (
	"context"
	"fmt"
	"net"

	"github.com/MKhiriev/scrapegate/internal/config"
	myGRPC "github.com/MKhiriev/scrapegate/internal/handler/grpc"
	"github.com/MKhiriev/scrapegate/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	gRPCNetListener net.Listener

	// watchCtx bounds the health probe loop; stopWatch ends it.
	watchCtx  context.Context
	stopWatch context.CancelFunc

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) (*grpcServer, error) {
	listener, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.GRPCAddress, err)
	}

	server := grpc.NewServer()
	handler.Register(server)

	watchCtx, stopWatch := context.WithCancel(context.Background())

	return &grpcServer{
		handler:         handler,
		server:          server,
		gRPCNetListener: listener,
		watchCtx:        watchCtx,
		stopWatch:       stopWatch,
		logger:          logger,
	}, nil
}

func (g *grpcServer) RunServer() {
	go g.handler.Watch(g.watchCtx)

	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		g.logger.Error().Err(err).Msg("gRPC server Serve")
	}
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.stopWatch()
	g.handler.Shutdown()
	g.server.GracefulStop()
}
