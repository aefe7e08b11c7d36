package health

import (
	"context"
	"net"

	"google.golang.org/grpc"

	healthgrpc "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps grpc health server
type Server struct {
	server *healthgrpc.Server
}

// NewServer creates health server using default grpc health server.
func NewServer() *Server {
	return &Server{
		server: healthgrpc.NewServer(),
	}
}

// InitService marks serviceName as SERVING.
func (h *Server) InitService(serviceName string) {
	h.server.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
}

// Draining marks serviceName as NOT_SERVING while the process is still up,
// e.g. while the pipeline drains its queue.
func (h *Server) Draining(serviceName string) {
	h.server.SetServingStatus(serviceName, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Shutdown sets all serving status to NOT_SERVING.
func (h *Server) Shutdown() {
	h.server.Shutdown()
}

// Resume sets all serving status to SERVING.
func (h *Server) Resume() {
	h.server.Resume()
}

// Register registers health server.
func (h *Server) Register(grpc *grpc.Server) {
	healthpb.RegisterHealthServer(grpc, h.server)
}

// Serve registers the health service on a new grpc server bound to lis and
// serves until ctx is done. The returned channel receives the Serve error.
func (h *Server) Serve(ctx context.Context, lis net.Listener) <-chan error {
	srv := grpc.NewServer()
	h.Register(srv)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(lis)
		close(errCh)
	}()

	go func() {
		<-ctx.Done()
		h.Shutdown()
		srv.GracefulStop()
	}()

	return errCh
}
