package weaviate

import (
	"context"
	"fmt"

	"rag-api/cmd/configs"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
)

func NewWeaviateClient(ctx context.Context, config *configs.Config) (*WeaviateClient, error) {
	// Build host with port - weaviate-go-client expects "host:port" format
	host := config.WeaviateHost
	if host == "" {
		host = "localhost"
	}
	port := config.WeaviatePort
	if port == "" {
		port = "7080"
	}
	hostWithPort := fmt.Sprintf("%s:%s", host, port)

	scheme := config.WeaviateScheme
	if scheme == "" {
		scheme = "http"
	}

	cfg := weaviate.Config{
		Host:   hostWithPort,
		Scheme: scheme,
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize weaviate client (connecting to %s://%s): %w", scheme, hostWithPort, err)
	}

	// Check if Weaviate is ready
	ready, err := client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate is not ready at %s://%s: %w", scheme, hostWithPort, err)
	}
	if !ready {
		return nil, fmt.Errorf("weaviate is not ready at %s://%s", scheme, hostWithPort)
	}

	return &WeaviateClient{
		Client: client,
	}, nil
}

// Ready reports whether the store answers its readiness probe.
func (w *WeaviateClient) Ready(ctx context.Context) error {
	ready, err := w.Client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return err
	}
	if !ready {
		return fmt.Errorf("weaviate not ready")
	}
	return nil
}
