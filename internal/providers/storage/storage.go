package storage

import (
	"context"
	"io"

	"go.uber.org/fx"
)

// Provider persists uploaded document blobs by key. Keys are opaque to the
// provider; the document service issues ULIDs.
type Provider interface {
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

var Module = fx.Module("provider.storage",
	fx.Provide(NewLocal),
)
