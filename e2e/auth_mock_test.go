//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"testing"

	authpb "github.com/vibast-solutions/ms-go-auth/app/types"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	defaultPlansCallerAPIKey   = "plans-caller-key"
	defaultPlansNoAccessAPIKey = "plans-no-access-key"
	defaultPlansAppAPIKey      = "plans-app-api-key"
	plansAuthMockAddr          = "127.0.0.1:38083"
)

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func plansCallerAPIKey() string {
	return envOrDefault("PLANS_CALLER_API_KEY", defaultPlansCallerAPIKey)
}

func plansNoAccessAPIKey() string {
	return envOrDefault("PLANS_NO_ACCESS_API_KEY", defaultPlansNoAccessAPIKey)
}

func plansAppAPIKey() string {
	return envOrDefault("PLANS_APP_API_KEY", defaultPlansAppAPIKey)
}

// plansCaller is what the auth service knows about a key presented to the
// plans service: who holds it and which services it may reach.
type plansCaller struct {
	serviceName string
	access      []string
}

func plansCallers() map[string]plansCaller {
	return map[string]plansCaller{
		plansCallerAPIKey():   {serviceName: "billing-gateway", access: []string{"plans-service", "invoices-service"}},
		plansNoAccessAPIKey(): {serviceName: "storefront", access: []string{"catalog-service"}},
	}
}

type plansAuthGRPCServer struct {
	authpb.UnimplementedAuthServiceServer

	mu          sync.Mutex
	validations map[string]int
}

var plansAuthMock = &plansAuthGRPCServer{validations: map[string]int{}}

func (s *plansAuthGRPCServer) ValidateInternalAccess(ctx context.Context, req *authpb.ValidateInternalAccessRequest) (*authpb.ValidateInternalAccessResponse, error) {
	if incomingPlansAPIKey(ctx) != plansAppAPIKey() {
		return nil, status.Error(codes.Unauthenticated, "unauthorized caller")
	}

	caller, ok := plansCallers()[strings.TrimSpace(req.GetApiKey())]
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "invalid api key")
	}

	s.mu.Lock()
	s.validations[caller.serviceName]++
	s.mu.Unlock()

	return &authpb.ValidateInternalAccessResponse{
		ServiceName:   caller.serviceName,
		AllowedAccess: caller.access,
	}, nil
}

func (s *plansAuthGRPCServer) validationCount(serviceName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validations[serviceName]
}

func TestMain(m *testing.M) {
	if os.Getenv("PLANS_CALLER_API_KEY") == "" {
		_ = os.Setenv("PLANS_CALLER_API_KEY", defaultPlansCallerAPIKey)
	}
	if os.Getenv("PLANS_NO_ACCESS_API_KEY") == "" {
		_ = os.Setenv("PLANS_NO_ACCESS_API_KEY", defaultPlansNoAccessAPIKey)
	}
	if os.Getenv("PLANS_APP_API_KEY") == "" {
		_ = os.Setenv("PLANS_APP_API_KEY", defaultPlansAppAPIKey)
	}

	listener, err := net.Listen("tcp", plansAuthMockAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start plans auth grpc mock: %v\n", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	authpb.RegisterAuthServiceServer(grpcServer, plansAuthMock)

	go func() {
		_ = grpcServer.Serve(listener)
	}()

	provider, err := startProviderMock(providerMockAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start payment provider mock: %v\n", err)
		os.Exit(1)
	}

	exitCode := m.Run()

	_ = provider.Close()
	grpcServer.GracefulStop()
	_ = listener.Close()

	os.Exit(exitCode)
}
