package grpc

import (
	"net"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/services"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type App struct {
	core *services.Core
	srv  *grpc.Server
}

func NewGrpc(core *services.Core) *App {
	server := &App{
		core: core,
		srv:  grpc.NewServer(),
	}

	server.srv.RegisterService(&EventServiceDesc, server)
	healthpb.RegisterHealthServer(server.srv, health.NewServer())

	return server
}

func (v *App) Serve(listener net.Listener) error {
	return v.srv.Serve(listener)
}

func (v *App) Listen() error {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		return err
	}

	return v.Serve(listener)
}

func (v *App) Stop() {
	v.srv.GracefulStop()
}
