// Package remote exposes a dispatch pipeline over gRPC so that actions
// can be submitted from other processes. It uses [grpc.ServiceDesc]
// registration so that no protobuf code generation is required.
//
// Because the request/response types are plain Go structs (not generated
// protobuf messages), the package registers a thin codec wrapper that
// JSON-encodes them while delegating all other messages to the standard
// proto codec. Import this package (or call [Register]) to activate the
// codec automatically.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	grpcEncoding "google.golang.org/grpc/encoding"
	_ "google.golang.org/grpc/encoding/proto" // ensure default proto codec is registered first
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"

	"github.com/Keksclan/goAcornFlow/contextx"
	"github.com/Keksclan/goAcornFlow/middleware"
	"github.com/Keksclan/goAcornFlow/security"
)

// DispatchRequest carries a remotely submitted action: a type tag plus an
// opaque JSON payload.
type DispatchRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DispatchResponse carries the terminal result back to the caller,
// JSON-encoded.
type DispatchResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
}

// flowMsg is a marker interface satisfied by DispatchRequest and
// DispatchResponse.
type flowMsg interface {
	isFlowMsg()
}

func (*DispatchRequest) isFlowMsg()  {}
func (*DispatchResponse) isFlowMsg() {}

// Action is the default in-process representation of a remotely
// submitted action. Middleware see its type tag through the usual
// action-type lookup; the terminal store decides what to do with the
// payload.
type Action struct {
	Type    string
	Payload json.RawMessage
}

// ActionType returns the remote action's type tag.
func (a Action) ActionType() string { return a.Type }

// DecodeFunc converts an incoming request into the action value handed to
// the pipeline. The default decoder wraps the request in an [Action].
type DecodeFunc func(req *DispatchRequest) (any, error)

// Option configures the remote service.
type Option func(*server)

// WithIPBlocker gates every remote dispatch through the given blocker.
// Blocked callers receive codes.PermissionDenied.
func WithIPBlocker(b *security.IPBlocker) Option {
	return func(s *server) { s.blocker = b }
}

// WithLogger logs each remote dispatch. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *server) { s.logger = logger }
}

// WithDecoder replaces the default request decoder.
func WithDecoder(fn DecodeFunc) Option {
	return func(s *server) { s.decode = fn }
}

// handlerIface is the interface the gRPC service descriptor binds to.
type handlerIface interface {
	dispatch(ctx context.Context, req *DispatchRequest) (*DispatchResponse, error)
}

// server adapts a [middleware.Dispatch] to the acorn.Flow gRPC service.
type server struct {
	d       middleware.Dispatch
	blocker *security.IPBlocker
	logger  *slog.Logger
	decode  DecodeFunc
}

func (s *server) dispatch(ctx context.Context, req *DispatchRequest) (*DispatchResponse, error) {
	if s.blocker != nil {
		md, _ := metadata.FromIncomingContext(ctx)
		if !s.blocker.Evaluate(ctx, md) {
			return nil, status.Error(codes.PermissionDenied, "client address not allowed")
		}
	}

	action, err := s.decode(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode action: %v", err)
	}

	ctx = contextx.WithOrigin(ctx, contextx.OriginRemote)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "remote dispatch",
			slog.String("action", req.Type),
		)
	}

	result, err := s.d(ctx, action)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return &DispatchResponse{Result: raw}, nil
}

// ServiceDesc is the grpc.ServiceDesc for the acorn.Flow service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "acorn.Flow",
	HandlerType: (*handlerIface)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Dispatch",
			Handler:    dispatchHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "acorn/flow.proto",
}

func dispatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(DispatchRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(handlerIface).dispatch(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/acorn.Flow/Dispatch",
	}
	handler := func(ctx context.Context, r any) (any, error) {
		return srv.(handlerIface).dispatch(ctx, r.(*DispatchRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// Register registers the acorn.Flow service on the given gRPC server,
// routing every remote dispatch through d.
func Register(s *grpc.Server, d middleware.Dispatch, opts ...Option) {
	srv := &server{
		d: d,
		decode: func(req *DispatchRequest) (any, error) {
			return Action{Type: req.Type, Payload: req.Payload}, nil
		},
	}
	for _, o := range opts {
		o(srv)
	}
	s.RegisterService(&ServiceDesc, srv)
}

// ---------- codec wrapper ----------

func init() {
	// Replace the default proto codec with a thin wrapper that JSON-encodes
	// flow types and delegates all other (protobuf) messages to proto.Marshal.
	grpcEncoding.RegisterCodec(flowCodec{})
}

// flowCodec wraps the default proto codec. It handles DispatchRequest and
// DispatchResponse via JSON, and delegates all other types to
// proto.Marshal/Unmarshal.
type flowCodec struct{}

func (flowCodec) Name() string { return "proto" }

func (flowCodec) Marshal(v any) ([]byte, error) {
	if _, ok := v.(flowMsg); ok {
		return json.Marshal(v)
	}
	if m, ok := v.(proto.Message); ok {
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("flow codec: unsupported message type %T", v)
}

func (flowCodec) Unmarshal(data []byte, v any) error {
	if _, ok := v.(flowMsg); ok {
		return json.Unmarshal(data, v)
	}
	if m, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("flow codec: unsupported message type %T", v)
}
