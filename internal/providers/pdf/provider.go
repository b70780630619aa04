package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

// Provider renders printable billing documents.
type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error)
	GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}

var Module = fx.Module("provider.pdf",
	fx.Provide(New),
)
