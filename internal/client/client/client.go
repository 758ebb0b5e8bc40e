package client

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/spellcaster/internal/api"
	"github.com/dmitrijs2005/spellcaster/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

type SpellClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	accessToken string
	timeout     time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *SpellClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	name := method[strings.LastIndex(method, "/")+1:]
	if s.accessToken != "" && !api.Public(name) {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewSpellClient prepares a connection to endpointURL. The connection is
// established lazily on the first call. Extra dial options are appended
// after the defaults.
func NewSpellClient(endpointURL, accessToken string, timeout time.Duration, opts ...grpc.DialOption) (*SpellClient, error) {
	c := &SpellClient{endpointURL: endpointURL, accessToken: accessToken, timeout: timeout}

	dial := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dial...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

// Call invokes method with the fields of in and returns the response message.
func (s *SpellClient) Call(ctx context.Context, method string, in map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, api.FullMethod(method), req, out); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (s *SpellClient) Close() error {
	return s.conn.Close()
}
