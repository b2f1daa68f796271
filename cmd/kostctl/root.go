package main

import (
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"kostku_backend/internals/configs"
	database "kostku_backend/internals/databases"
	billService "kostku_backend/internals/features/billing/bills/service"
	"kostku_backend/internals/features/billing/engine"
)

// openDB dipanggil lazily oleh subcommand yang butuh DB.
func openDB() *gorm.DB {
	if database.DB == nil {
		database.ConnectDB()
	}
	return database.DB
}

func newBillService(db *gorm.DB) *billService.Service {
	return billService.NewService(
		billService.NewGormStore(db),
		billService.WithProrationMode(engine.ParseProrationMode(configs.ProrationMode)),
	)
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "kostctl",
		Short:        "Operasional kostku: migrasi, seed, import kamar, tagihan",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configs.LoadEnv()
			configs.SetupLogger(configs.LogLevel)
		},
	}
	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newRoomsCmd(),
		newBillsCmd(),
	)
	return root
}
