// Package natsbus publishes domain events on core NATS subjects.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher sends JSON events on NATS.
type Publisher struct {
	nc *nats.Conn
}

// Connect dials the NATS server at url.
func Connect(url string) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("socialhub"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{nc: nc}, nil
}

// Publish marshals payload and sends it on subject.
func (p *Publisher) Publish(_ context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Subscribe registers handler for every subject matching pattern.
func (p *Publisher) Subscribe(pattern string, handler nats.MsgHandler) (*nats.Subscription, error) {
	sub, err := p.nc.Subscribe(pattern, handler)
	if err != nil {
		return nil, fmt.Errorf("nats subscribe %s: %w", pattern, err)
	}
	return sub, nil
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.nc.Drain()
}
