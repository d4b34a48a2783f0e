package api

import (
	"context"

	"google.golang.org/grpc"
)

const (
	AuthServiceName     = "gophauth.v1.AuthService"
	IdentityServiceName = "gophauth.v1.IdentityService"
)

// FullMethod returns the "/service/method" name gRPC reports for a call.
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

// AuthServer is implemented by the server side of AuthService.
type AuthServer interface {
	Register(context.Context, *RegisterRequest) (*Identity, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Refresh(context.Context, *RefreshRequest) (*RefreshResponse, error)
	Logout(context.Context, *LogoutRequest) (*Empty, error)
}

// IdentityServer is implemented by the server side of IdentityService.
type IdentityServer interface {
	List(context.Context, *Empty) (*ListIdentitiesResponse, error)
	Get(context.Context, *GetIdentityRequest) (*Identity, error)
	GetSelf(context.Context, *Empty) (*Identity, error)
	Create(context.Context, *RegisterRequest) (*Identity, error)
	Update(context.Context, *UpdateIdentityRequest) (*Identity, error)
	Delete(context.Context, *DeleteIdentityRequest) (*Empty, error)
}

// unary builds a MethodDesc that decodes Req, runs it through the server's
// interceptor chain and dispatches to call.
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(service, method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AuthServiceName, "Register", AuthServer.Register),
		unary(AuthServiceName, "Login", AuthServer.Login),
		unary(AuthServiceName, "Refresh", AuthServer.Refresh),
		unary(AuthServiceName, "Logout", AuthServer.Logout),
	},
	Metadata: "gophauth/v1/auth",
}

var IdentityServiceDesc = grpc.ServiceDesc{
	ServiceName: IdentityServiceName,
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(IdentityServiceName, "List", IdentityServer.List),
		unary(IdentityServiceName, "Get", IdentityServer.Get),
		unary(IdentityServiceName, "GetSelf", IdentityServer.GetSelf),
		unary(IdentityServiceName, "Create", IdentityServer.Create),
		unary(IdentityServiceName, "Update", IdentityServer.Update),
		unary(IdentityServiceName, "Delete", IdentityServer.Delete),
	},
	Metadata: "gophauth/v1/identity",
}

func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}

func RegisterIdentityServer(s grpc.ServiceRegistrar, srv IdentityServer) {
	s.RegisterService(&IdentityServiceDesc, srv)
}
