package notetemplate

import (
	"github.com/SarangTandel5112/care-connects/internal/notetemplate/repository"
	"github.com/SarangTandel5112/care-connects/internal/notetemplate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notetemplate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
