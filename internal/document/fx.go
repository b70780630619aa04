package document

import (
	"github.com/SarangTandel5112/care-connects/internal/document/repository"
	"github.com/SarangTandel5112/care-connects/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
