package cache

import (
	"context"
	"time"
)

// QRCache keeps the most recent pairing QR code per connection so throttled
// polls can be answered without calling the gateway.
type QRCache interface {
	StoreQR(ctx context.Context, connectionID, qrCode string, issuedAt time.Time) error
	LoadQR(ctx context.Context, connectionID string) (qrCode string, found bool, err error)
	Forget(ctx context.Context, connectionID string) error
}

// Noop is used when Redis is not configured.
type Noop struct{}

func (Noop) StoreQR(context.Context, string, string, time.Time) error { return nil }

func (Noop) LoadQR(context.Context, string) (string, bool, error) { return "", false, nil }

func (Noop) Forget(context.Context, string) error { return nil }
