package main

import (
	"github.com/spf13/cobra"

	"kostku_backend/internals/seeds"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Isi data awal (admin, owner contoh, properti contoh)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return seeds.RunAllSeeds(openDB().WithContext(cmd.Context()))
		},
	}
}
