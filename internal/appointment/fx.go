package appointment

import (
	"github.com/SarangTandel5112/care-connects/internal/appointment/repository"
	"github.com/SarangTandel5112/care-connects/internal/appointment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("appointment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
