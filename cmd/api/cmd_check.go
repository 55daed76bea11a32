package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"school-supply-tracker-api-server/internal/logger"
)

// supply-tracker check: connectivity and collection counts for a deployment.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the deployment can reach MongoDB and report collection counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		st, err := openStore(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer st.Close(context.Background())

		users, err := st.users.CountUsers(ctx)
		if err != nil {
			return err
		}
		items, err := st.items.CountItems(ctx)
		if err != nil {
			return err
		}
		pickups, err := st.pickups.CountPickups(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "COLLECTION\tDOCUMENTS")
		fmt.Fprintf(w, "users\t%d\n", users)
		fmt.Fprintf(w, "supply_items\t%d\n", items)
		fmt.Fprintf(w, "supply_pickups\t%d\n", pickups)
		if err := w.Flush(); err != nil {
			return err
		}
		if items == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no supply items yet; run `supply-tracker seed`")
		}
		return nil
	},
}
