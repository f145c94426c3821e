package cli

import (
	"fmt"
	"time"

	"restaurant_reservation/internal/config"

	"github.com/spf13/cobra"
)

func NewAvailabilityCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Show free tables for the slot containing --date",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := time.Parse(time.RFC3339, date)
			if err != nil {
				return fmt.Errorf("--date must be RFC 3339: %w", err)
			}
			cfg := config.LoadConfig()
			setupLogging(cfg)
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			avail, err := a.engine.Availability(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "slot %s: %d of %d tables free %v\n",
				avail.Slot.Format(time.RFC3339), len(avail.FreeTables), avail.TotalTables, avail.FreeTables)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "requested time, RFC 3339")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
