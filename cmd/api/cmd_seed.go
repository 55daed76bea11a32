package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"school-supply-tracker-api-server/internal/database"
	"school-supply-tracker-api-server/internal/logger"
	"school-supply-tracker-api-server/internal/services"
)

// supply-tracker seed: default items plus the configured admin account.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the default supply items and the configured admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		st, err := openStore(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())

		n, err := (&services.InventoryService{Items: st.items}).SeedDefaults(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "supply items written: %d\n", n)

		if cfg.Seed.AdminEmail == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "seed.adminEmail not set, admin account skipped")
			return nil
		}
		admin, err := database.SeedAdmin(ctx, st.users, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin account: %s (%s)\n", admin.Email, admin.UID)
		return nil
	},
}

var adminEmail, adminPassword string

// supply-tracker create-admin --email --password
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or promote an existing user to admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		st, err := openStore(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())

		admin, err := database.SeedAdmin(ctx, st.users, adminEmail, adminPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin account: %s (%s)\n", admin.Email, admin.UID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email address")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password, required when the account does not exist yet")
	_ = createAdminCmd.MarkFlagRequired("email")
}
