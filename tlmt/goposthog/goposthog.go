// Package goposthog ships telemetry events to PostHog.
package goposthog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"

	"github.com/kremlit/leadharvest/tlmt"
)

type service struct {
	client     posthog.Client
	distinctID string
}

// New creates a PostHog-backed telemetry sink. Each process gets a random
// distinct ID; nothing about the machine or the queries is sent.
func New(apiKey, endpoint string) (tlmt.Telemetry, error) {
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		return nil, fmt.Errorf("create posthog client: %w", err)
	}

	return &service{
		client:     client,
		distinctID: uuid.New().String(),
	}, nil
}

func (s *service) Send(ctx context.Context, event tlmt.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	properties := posthog.NewProperties()
	for k, v := range event.Properties {
		properties.Set(k, v)
	}

	return s.client.Enqueue(posthog.Capture{
		DistinctId: s.distinctID,
		Event:      event.Name,
		Properties: properties,
	})
}

func (s *service) Close() error {
	return s.client.Close()
}
