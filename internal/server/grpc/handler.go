package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

func toAPIIdentity(p models.Profile) *api.Identity {
	return &api.Identity{
		OwnerKey:    p.OwnerKey,
		LoginID:     p.LoginID,
		DisplayName: p.DisplayName,
		Gender:      p.Gender,
		Phone:       p.Phone,
		Email:       p.Email,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toRegisterInput(req *api.RegisterRequest) services.RegisterInput {
	return services.RegisterInput{
		LoginID:     req.LoginID,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Email:       req.Email,
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.Identity, error) {
	p, err := s.auth.Register(ctx, toRegisterInput(req))
	if err != nil {
		return nil, s.toStatus(ctx, "Register", err)
	}
	return toAPIIdentity(p), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	res, err := s.auth.Login(ctx, req.LoginID, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "Login", err)
	}
	return &api.LoginResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		LoginID:      res.LoginID,
		DisplayName:  res.DisplayName,
	}, nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *api.RefreshRequest) (*api.RefreshResponse, error) {
	access, err := s.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "Refresh", err)
	}
	return &api.RefreshResponse{AccessToken: access}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *api.LogoutRequest) (*api.Empty, error) {
	if err := s.auth.Logout(ctx, auth.PrincipalFrom(ctx), req.LoginID); err != nil {
		return nil, s.toStatus(ctx, "Logout", err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) List(ctx context.Context, _ *api.Empty) (*api.ListIdentitiesResponse, error) {
	list, err := s.identities.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "List", err)
	}
	resp := &api.ListIdentitiesResponse{Identities: make([]api.Identity, 0, len(list))}
	for _, p := range list {
		resp.Identities = append(resp.Identities, *toAPIIdentity(p))
	}
	return resp, nil
}

func (s *GRPCServer) Get(ctx context.Context, req *api.GetIdentityRequest) (*api.Identity, error) {
	p, err := s.identities.Get(ctx, req.OwnerKey)
	if err != nil {
		return nil, s.toStatus(ctx, "Get", err)
	}
	return toAPIIdentity(p), nil
}

func (s *GRPCServer) GetSelf(ctx context.Context, _ *api.Empty) (*api.Identity, error) {
	p, err := s.identities.GetSelf(ctx, auth.PrincipalFrom(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, "GetSelf", err)
	}
	return toAPIIdentity(p), nil
}

func (s *GRPCServer) Create(ctx context.Context, req *api.RegisterRequest) (*api.Identity, error) {
	p, err := s.identities.Create(ctx, toRegisterInput(req))
	if err != nil {
		return nil, s.toStatus(ctx, "Create", err)
	}
	return toAPIIdentity(p), nil
}

func (s *GRPCServer) Update(ctx context.Context, req *api.UpdateIdentityRequest) (*api.Identity, error) {
	upd := models.IdentityUpdate{
		DisplayName: req.DisplayName,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Email:       req.Email,
	}
	p, err := s.identities.Update(ctx, auth.PrincipalFrom(ctx), req.OwnerKey, upd)
	if err != nil {
		return nil, s.toStatus(ctx, "Update", err)
	}
	return toAPIIdentity(p), nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *api.DeleteIdentityRequest) (*api.Empty, error) {
	if err := s.identities.Delete(ctx, auth.PrincipalFrom(ctx), req.OwnerKey); err != nil {
		return nil, s.toStatus(ctx, "Delete", err)
	}
	return &api.Empty{}, nil
}
