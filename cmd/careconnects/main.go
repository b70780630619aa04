package main

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/SarangTandel5112/care-connects/internal/clock"
	"github.com/SarangTandel5112/care-connects/internal/config"
	"github.com/SarangTandel5112/care-connects/internal/migration"
	"github.com/SarangTandel5112/care-connects/internal/observability"
	"github.com/SarangTandel5112/care-connects/internal/server"
	"github.com/SarangTandel5112/care-connects/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

// RegisterSnowflake provides the ID generator. NODE_ID distinguishes
// replicas; single-node deployments default to 1.
func RegisterSnowflake() (*snowflake.Node, error) {
	nodeID := int64(1)
	if raw := os.Getenv("NODE_ID"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			nodeID = parsed
		}
	}
	return snowflake.NewNode(nodeID)
}
