package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authgate/internal/server/guard"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	usersServiceName = "authgate.v1.Users"
	MethodMe         = "/" + usersServiceName + "/Me"
)

// UsersServer is the server side of authgate.v1.Users. Messages are protobuf
// well-known types so no generated stubs are needed.
type UsersServer interface {
	Me(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

var usersServiceDesc = grpc.ServiceDesc{
	ServiceName: usersServiceName,
	HandlerType: (*UsersServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Me", Handler: meHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "authgate/v1/users.proto",
}

func meHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	s := srv.(UsersServer)
	if interceptor == nil {
		return s.Me(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodMe}
	handler := func(ctx context.Context, req any) (any, error) {
		return s.Me(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Me returns the profile of the caller identified by the interceptor.
func (s *GRPCServer) Me(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	p, ok := guard.PrincipalFromContext(ctx)
	if !ok {
		return nil, toStatus(guard.ErrUnauthorized)
	}

	user, err := s.profile.Get(ctx, p.Subject)
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := structpb.NewStruct(map[string]any{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.DisplayName,
		"created_at": user.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": user.UpdatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Error(ctx, "encoding profile", "error", err)
		return nil, toStatus(err)
	}
	return out, nil
}
