// Package grpc exposes the auth and identity services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc"
)

// AuthService is the session lifecycle the server delegates to.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (models.Profile, error)
	Login(ctx context.Context, loginID, password string) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, caller auth.Principal, loginID string) error
}

// IdentityService is the identity resource API the server delegates to.
type IdentityService interface {
	List(ctx context.Context) ([]models.Profile, error)
	Get(ctx context.Context, ownerKey string) (models.Profile, error)
	GetSelf(ctx context.Context, caller auth.Principal) (models.Profile, error)
	Create(ctx context.Context, in services.RegisterInput) (models.Profile, error)
	Update(ctx context.Context, caller auth.Principal, ownerKey string, upd models.IdentityUpdate) (models.Profile, error)
	Delete(ctx context.Context, caller auth.Principal, ownerKey string) error
}

// SubjectExtractor verifies an access token and returns its subject.
type SubjectExtractor interface {
	ExtractSubject(token string) (string, error)
}

type GRPCServer struct {
	address    string
	auth       AuthService
	identities IdentityService
	tokens     SubjectExtractor
	metrics    *metrics.Metrics
	logger     logging.Logger
}

var (
	_ api.AuthServer     = (*GRPCServer)(nil)
	_ api.IdentityServer = (*GRPCServer)(nil)
)

// NewGRPCServer wires the services behind a gRPC server listening on
// address. m may be nil.
func NewGRPCServer(address string, l logging.Logger, as AuthService, is IdentityService, tokens SubjectExtractor, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address:    address,
		auth:       as,
		identities: is,
		tokens:     tokens,
		metrics:    m,
		logger:     l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	api.RegisterAuthServer(srv, s)
	api.RegisterIdentityServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
