// internal/transport/grpcapi/auth_server.go
package grpcapi

import (
	"context"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/service"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

// AuthBackend is the identity provider behind auth.v1.AuthService
type AuthBackend interface {
	SignUp(ctx context.Context, in service.SignUpInput) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*service.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*service.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context) (*models.User, error)
	Authenticate(ctx context.Context, accessToken string) (auth.Identity, error)
}

// AuthServer implements auth.v1.AuthService
type AuthServer struct {
	auth AuthBackend
}

// NewAuthServer creates the auth RPC handlers
func NewAuthServer(backend AuthBackend) *AuthServer {
	return &AuthServer{auth: backend}
}

func (s *AuthServer) SignUp(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in service.SignUpInput
	if err := decodeMessage(req, &in); err != nil {
		return nil, toStatus(err)
	}

	user, err := s.auth.SignUp(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(user)
}

func (s *AuthServer) SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in signInRequest
	if err := decodeMessage(req, &in); err != nil {
		return nil, toStatus(err)
	}

	session, err := s.auth.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(session)
}

func (s *AuthServer) Refresh(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in refreshRequest
	if err := decodeMessage(req, &in); err != nil {
		return nil, toStatus(err)
	}

	session, err := s.auth.Refresh(ctx, in.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(session)
}

func (s *AuthServer) SignOut(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	var in refreshRequest
	if err := decodeMessage(req, &in); err != nil {
		return nil, toStatus(err)
	}

	if err := s.auth.SignOut(ctx, in.RefreshToken); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *AuthServer) GetMe(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(user)
}
