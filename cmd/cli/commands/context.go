package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/internal/config"
	"github.com/jakechorley/debate-rosters/pkg/db"
)

// AppContext holds the application dependencies shared by all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Logger   *zap.Logger
	Ctx      context.Context
}
