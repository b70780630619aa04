package consultation

import (
	"github.com/SarangTandel5112/care-connects/internal/consultation/repository"
	"github.com/SarangTandel5112/care-connects/internal/consultation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("consultation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
