package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/server/guard"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// methodModes lists every method that is not access-guarded. Anything not
// listed requires an access token.
var methodModes = map[string]guard.Mode{
	healthpb.Health_Check_FullMethodName: guard.ModePublic,
	healthpb.Health_Watch_FullMethodName: guard.ModePublic,
}

func modeFor(method string) guard.Mode {
	if m, ok := methodModes[method]; ok {
		return m
	}
	return guard.ModeAccessRequired
}

func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var creds guard.Credentials
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(strings.ToLower(common.AuthorizationHeaderName)); len(values) > 0 {
			creds.Authorization = values[0]
		}
	}

	p, err := s.enforcer.Enforce(ctx, modeFor(info.FullMethod), creds)
	if err != nil {
		return nil, toStatus(err)
	}
	if p != nil {
		ctx = guard.WithPrincipal(ctx, p)
	}

	return handler(ctx, req)
}

// toStatus maps an error kind to a gRPC status. Unknown errors never expose
// their text.
func toStatus(err error) error {
	msg := common.Message(err)
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, msg)
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, msg)
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, msg)
	case errors.Is(err, common.ErrorRateLimited):
		return status.Error(codes.ResourceExhausted, msg)
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, msg)
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
