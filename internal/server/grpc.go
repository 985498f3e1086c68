package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	myGRPC "github.com/MKhiriev/crowdblog-auth/internal/handler/grpc"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
)

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	gRPCNetListener net.Listener

	// watchCtx scopes the health probe loop; stopWatch ends it.
	watchCtx  context.Context
	stopWatch context.CancelFunc

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) (*grpcServer, error) {
	listener, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errListeningGRPCAddress, err)
	}

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(handler.UnaryLoggingInterceptor))
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

	g.logger.Info().Str("address", g.gRPCNetListener.Addr().String()).Msg("gRPC server listening")
	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		g.logger.Err(err).Str("func", "*grpcServer.RunServer").Msg("gRPC server Serve")
	}
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.stopWatch()
	g.server.GracefulStop()
}
