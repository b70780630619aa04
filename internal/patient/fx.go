package patient

import (
	"github.com/SarangTandel5112/care-connects/internal/patient/repository"
	"github.com/SarangTandel5112/care-connects/internal/patient/service"
	"go.uber.org/fx"
)

var Module = fx.Module("patient.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
