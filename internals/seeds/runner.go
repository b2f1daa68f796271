package seeds

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"kostku_backend/internals/seeds/properties"
	"kostku_backend/internals/seeds/users"
)

// RunAllSeeds: user dulu, lalu properti + kamar. Idempoten.
func RunAllSeeds(db *gorm.DB) error {
	//* User
	nUsers, err := users.SeedUsers(db, nil)
	if err != nil {
		return err
	}

	//* Properti & kamar
	nProps, err := properties.SeedProperties(db, nil)
	if err != nil {
		return err
	}

	log.Info().Int("users", nUsers).Int("properties", nProps).Msg("🌱 seed selesai")
	return nil
}
