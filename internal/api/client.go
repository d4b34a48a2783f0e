package api

import (
	"context"

	"google.golang.org/grpc"
)

// AuthClient is the client side of AuthService.
type AuthClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthClient(cc grpc.ClientConnInterface) *AuthClient {
	return &AuthClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, service, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(service, method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*Identity, error) {
	return invoke[Identity](ctx, c.cc, AuthServiceName, "Register", in, opts)
}

func (c *AuthClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, AuthServiceName, "Login", in, opts)
}

func (c *AuthClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*RefreshResponse, error) {
	return invoke[RefreshResponse](ctx, c.cc, AuthServiceName, "Refresh", in, opts)
}

func (c *AuthClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AuthServiceName, "Logout", in, opts)
}

// IdentityClient is the client side of IdentityService.
type IdentityClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityClient(cc grpc.ClientConnInterface) *IdentityClient {
	return &IdentityClient{cc: cc}
}

func (c *IdentityClient) List(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListIdentitiesResponse, error) {
	return invoke[ListIdentitiesResponse](ctx, c.cc, IdentityServiceName, "List", in, opts)
}

func (c *IdentityClient) Get(ctx context.Context, in *GetIdentityRequest, opts ...grpc.CallOption) (*Identity, error) {
	return invoke[Identity](ctx, c.cc, IdentityServiceName, "Get", in, opts)
}

func (c *IdentityClient) GetSelf(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Identity, error) {
	return invoke[Identity](ctx, c.cc, IdentityServiceName, "GetSelf", in, opts)
}

func (c *IdentityClient) Create(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*Identity, error) {
	return invoke[Identity](ctx, c.cc, IdentityServiceName, "Create", in, opts)
}

func (c *IdentityClient) Update(ctx context.Context, in *UpdateIdentityRequest, opts ...grpc.CallOption) (*Identity, error) {
	return invoke[Identity](ctx, c.cc, IdentityServiceName, "Update", in, opts)
}

func (c *IdentityClient) Delete(ctx context.Context, in *DeleteIdentityRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, IdentityServiceName, "Delete", in, opts)
}
