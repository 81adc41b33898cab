package db

import (
	log "github.com/sirupsen/logrus"

	"github.com/shopease/supportchat/pkg/db/models"
)

// UpdateSchema migrates or initializes the database to the latest schema.
// Conversations and messages rely on gen_random_uuid(), available without
// extensions on postgres 13 and later.
func (d *DB) UpdateSchema() error {
	log.Info("migrating database schema")

	if err := d.DB.AutoMigrate(
		&models.Conversation{},
		&models.Message{},
	); err != nil {
		return err
	}

	log.Info("schema migration complete")
	return nil
}
