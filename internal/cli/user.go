package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/olimp/hotel-booking/internal/config"
	"github.com/olimp/hotel-booking/internal/handler"
	"github.com/olimp/hotel-booking/internal/repository"
)

func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User management",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var login, password string
	c := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < handler.MinPasswordLen {
				return fmt.Errorf("password must be at least %d characters", handler.MinPasswordLen)
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

			id, err := repository.NewUserRepo(db).Create(ctx, login, password, cfg.BcryptCost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id=%d)\n", login, id)
			return nil
		},
	}
	c.Flags().StringVar(&login, "login", "", "login name")
	c.Flags().StringVar(&password, "password", "", "password")
	_ = c.MarkFlagRequired("login")
	_ = c.MarkFlagRequired("password")
	return c
}
