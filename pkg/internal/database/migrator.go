package database

import (
	"context"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
)

var AutoMaintainRange = []models.Entity{
	&models.User{},
	&models.Post{},
	&models.Comment{},
	&models.Reaction{},
	&models.Follow{},
	&models.Message{},
	&models.Notification{},
}

func RunMigration(ctx context.Context, source Database) error {
	if err := source.Migrate(ctx, AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
