// internal/middleware/context_extractor.go
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
)

type clientInfoKey struct{}

// RequestIDHeader is echoed back on HTTP responses and read from gRPC metadata
const RequestIDHeader = "X-Request-ID"

// ClientInfo describes the caller of a request
type ClientInfo struct {
	IPAddress string
	UserAgent string
	RequestID string
}

// WithClientInfo returns a copy of ctx carrying info
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// GetClientInfo extracts the client information stored on the context
func GetClientInfo(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}

// MetadataExtractorInterceptor extracts client metadata and adds it to context
type MetadataExtractorInterceptor struct{}

// NewMetadataExtractorInterceptor creates a new metadata extractor interceptor
func NewMetadataExtractorInterceptor() *MetadataExtractorInterceptor {
	return &MetadataExtractorInterceptor{}
}

// Unary returns a unary server interceptor for metadata extraction
func (m *MetadataExtractorInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		return handler(m.enrichContext(ctx), req)
	}
}

// Stream returns a stream server interceptor for metadata extraction
func (m *MetadataExtractorInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		return handler(srv, &wrappedServerStream{
			ServerStream: stream,
			ctx:          m.enrichContext(stream.Context()),
		})
	}
}

func (m *MetadataExtractorInterceptor) enrichContext(ctx context.Context) context.Context {
	info := ClientInfo{
		IPAddress: peerIPAddress(ctx),
		UserAgent: firstMetadata(ctx, "user-agent", "grpc-user-agent", "x-user-agent"),
		RequestID: firstMetadata(ctx, strings.ToLower(RequestIDHeader)),
	}
	if info.RequestID == "" {
		info.RequestID = uuid.NewString()
	}
	return WithClientInfo(ctx, info)
}

// peerIPAddress extracts the client IP address from the gRPC peer
func peerIPAddress(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}

	if tcpAddr, ok := p.Addr.(*net.TCPAddr); ok {
		return tcpAddr.IP.String()
	}

	addr := p.Addr.String()
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func firstMetadata(ctx context.Context, keys ...string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, key := range keys {
		if values := md.Get(key); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return ""
}

// ClientInfoMiddleware is the HTTP counterpart of MetadataExtractorInterceptor
func ClientInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := ClientInfo{
			IPAddress: requestIPAddress(r),
			UserAgent: r.UserAgent(),
			RequestID: r.Header.Get(RequestIDHeader),
		}
		if info.RequestID == "" {
			info.RequestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, info.RequestID)

		next.ServeHTTP(w, r.WithContext(WithClientInfo(r.Context(), info)))
	})
}

// requestIPAddress prefers the first X-Forwarded-For hop over RemoteAddr
func requestIPAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
