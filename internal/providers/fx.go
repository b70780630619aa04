package providers

import (
	"github.com/SarangTandel5112/care-connects/internal/providers/pdf"
	"github.com/SarangTandel5112/care-connects/internal/providers/storage"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
	storage.Module,
)
