package main

import (
	"github.com/spf13/cobra"

	database "kostku_backend/internals/databases"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrasi skema (goose, SQL embedded)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Jalankan semua migrasi yang belum diterapkan",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return database.MigrateUp(cmd.Context(), openDB())
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Rollback satu migrasi terakhir",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return database.MigrateDown(cmd.Context(), openDB())
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Tampilkan status migrasi",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return database.MigrateStatus(cmd.Context(), openDB())
			},
		},
	)
	return cmd
}
