//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"debugassist/src/broker"
	"debugassist/src/contracts"
)

func TestRedpandaBrokerIntegration(t *testing.T) {
	brokers := os.Getenv("REDPANDA_BROKERS")
	if brokers == "" {
		t.Skip("REDPANDA_BROKERS not set, skipping integration test")
	}

	rb, err := broker.NewRedpandaBroker(strings.Split(brokers, ","))
	if err != nil {
		t.Fatalf("NewRedpandaBroker failed: %v", err)
	}
	defer rb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	msgs, err := rb.Subscribe(ctx, contracts.TopicCasesRaw, "integration-test")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	payload := []byte(`{"run_id":"it-run","case":{"id":"it-1"}}`)
	if err := rb.Publish(ctx, contracts.TopicCasesRaw, "it-1", payload); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-msgs:
		if string(msg.Value) != string(payload) {
			t.Errorf("got payload %q, want %q", msg.Value, payload)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for the published message")
	}
}
