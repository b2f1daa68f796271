package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	billService "kostku_backend/internals/features/billing/bills/service"
	roomService "kostku_backend/internals/features/rooms/service"
)

func newRoomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Kelola kamar",
	}

	var propertyID string
	importCmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import kamar dari sheet (name | price | trash_service | occupants)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := uuid.Parse(propertyID)
			if err != nil {
				return fmt.Errorf("--property bukan UUID: %w", err)
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			db := openDB()
			svc := roomService.NewRoomService(db, newBillService(db))
			res, err := svc.ImportRooms(cmd.Context(), billService.SystemActor, pid, f)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	importCmd.Flags().StringVar(&propertyID, "property", "", "id properti tujuan")
	_ = importCmd.MarkFlagRequired("property")

	cmd.AddCommand(importCmd)
	return cmd
}
