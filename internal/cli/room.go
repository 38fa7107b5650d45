package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/olimp/hotel-booking/internal/config"
	"github.com/olimp/hotel-booking/internal/model"
	"github.com/olimp/hotel-booking/internal/repository"
)

func NewRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management",
	}
	cmd.AddCommand(newRoomAddCmd())
	return cmd
}

func newRoomAddCmd() *cobra.Command {
	var (
		room model.Room
		desc string
	)
	c := &cobra.Command{
		Use:   "add",
		Short: "Create a room",
		RunE: func(cmd *cobra.Command, args []string) error {
			if desc != "" {
				room.Description = &desc
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()
			db, _, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := repository.NewRoomRepo(db).Create(ctx, &room); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created room %s (id=%d)\n", room.Name, room.ID)
			return nil
		},
	}
	c.Flags().StringVar(&room.Name, "name", "", "room name or number")
	c.Flags().Uint32Var(&room.Capacity, "capacity", 2, "number of guests")
	c.Flags().Uint32Var(&room.PricePerNightCents, "price-cents", 0, "price per night in cents")
	c.Flags().StringVar(&desc, "description", "", "optional description")
	_ = c.MarkFlagRequired("name")
	return c
}
