package doctor

import (
	"github.com/SarangTandel5112/care-connects/internal/doctor/repository"
	"github.com/SarangTandel5112/care-connects/internal/doctor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("doctor.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
