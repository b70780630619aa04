package clinic

import (
	"github.com/SarangTandel5112/care-connects/internal/clinic/repository"
	"github.com/SarangTandel5112/care-connects/internal/clinic/service"
	"go.uber.org/fx"
)

var Module = fx.Module("clinic.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
