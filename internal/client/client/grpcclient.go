package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type authAPI interface {
	Register(ctx context.Context, in *api.RegisterRequest, opts ...grpc.CallOption) (*api.Identity, error)
	Login(ctx context.Context, in *api.LoginRequest, opts ...grpc.CallOption) (*api.LoginResponse, error)
	Refresh(ctx context.Context, in *api.RefreshRequest, opts ...grpc.CallOption) (*api.RefreshResponse, error)
	Logout(ctx context.Context, in *api.LogoutRequest, opts ...grpc.CallOption) (*api.Empty, error)
}

type identityAPI interface {
	List(ctx context.Context, in *api.Empty, opts ...grpc.CallOption) (*api.ListIdentitiesResponse, error)
	Get(ctx context.Context, in *api.GetIdentityRequest, opts ...grpc.CallOption) (*api.Identity, error)
	GetSelf(ctx context.Context, in *api.Empty, opts ...grpc.CallOption) (*api.Identity, error)
	Update(ctx context.Context, in *api.UpdateIdentityRequest, opts ...grpc.CallOption) (*api.Identity, error)
	Delete(ctx context.Context, in *api.DeleteIdentityRequest, opts ...grpc.CallOption) (*api.Empty, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	auth        authAPI
	identities  identityAPI

	mu     sync.Mutex
	tokens Tokens
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationHeaderName)
	if token != "" {
		md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

var refreshMethod = api.FullMethod(api.AuthServiceName, "Refresh")

// accessTokenInterceptor attaches the access token and, when the server
// says it expired, refreshes it once and retries.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	tokens := s.Tokens()
	err := invoker(withAccessToken(ctx, tokens.AccessToken), method, req, reply, cc, opts...)
	if err == nil || method == refreshMethod {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if tokens.RefreshToken == "" {
		return err
	}

	if rerr := s.Refresh(ctx); rerr != nil {
		return err
	}

	return invoker(withAccessToken(ctx, s.Tokens().AccessToken), method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.initGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.auth = api.NewAuthClient(conn)
	s.identities = api.NewIdentityClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

func (s *GRPCClient) SetTokens(t Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = t
}

func (s *GRPCClient) Register(ctx context.Context, req *api.RegisterRequest) (*api.Identity, error) {
	resp, err := s.auth.Register(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Login(ctx context.Context, loginID string, password []byte) (*api.LoginResponse, error) {
	resp, err := s.auth.Login(ctx, &api.LoginRequest{LoginID: loginID, Password: string(password)})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.SetTokens(Tokens{LoginID: resp.LoginID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
	return resp, nil
}

// Refresh replaces the access token. The refresh token is kept.
func (s *GRPCClient) Refresh(ctx context.Context) error {
	tokens := s.Tokens()
	if tokens.RefreshToken == "" {
		return ErrNotLoggedIn
	}
	resp, err := s.auth.Refresh(ctx, &api.RefreshRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		return s.mapError(err)
	}
	tokens.AccessToken = resp.AccessToken
	s.SetTokens(tokens)
	return nil
}

func (s *GRPCClient) Logout(ctx context.Context) error {
	tokens := s.Tokens()
	if !tokens.LoggedIn() {
		return ErrNotLoggedIn
	}
	if _, err := s.auth.Logout(ctx, &api.LogoutRequest{LoginID: tokens.LoginID}); err != nil {
		return s.mapError(err)
	}
	s.SetTokens(Tokens{})
	return nil
}

func (s *GRPCClient) Me(ctx context.Context) (*api.Identity, error) {
	resp, err := s.identities.GetSelf(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListIdentities(ctx context.Context) ([]api.Identity, error) {
	resp, err := s.identities.List(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Identities, nil
}

func (s *GRPCClient) GetIdentity(ctx context.Context, ownerKey string) (*api.Identity, error) {
	resp, err := s.identities.Get(ctx, &api.GetIdentityRequest{OwnerKey: ownerKey})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) UpdateIdentity(ctx context.Context, req *api.UpdateIdentityRequest) (*api.Identity, error) {
	resp, err := s.identities.Update(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) DeleteIdentity(ctx context.Context, ownerKey string) error {
	if _, err := s.identities.Delete(ctx, &api.DeleteIdentityRequest{OwnerKey: ownerKey}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument, codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
