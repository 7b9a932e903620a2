package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/guardline-dev/guardline/internal/store"
)

var (
	pruneRetention time.Duration
	pruneDBPath    string
)

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().DurationVar(&pruneRetention, "retention", 30*24*time.Hour, "Drop cached results older than this")
	pruneCmd.Flags().StringVar(&pruneDBPath, "db", "", "Path to the result store (default ~/.guardline/results.db)")
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop stale entries from the result store",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := pruneDBPath
		if dbPath == "" {
			p, err := store.DefaultPath()
			if err != nil {
				return err
			}
			dbPath = p
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		defer func() { _ = st.Close() }()

		dropped, err := st.Prune(context.Background(), pruneRetention)
		if err != nil {
			return err
		}
		fmt.Printf("pruned %d stale result(s)\n", dropped)
		return nil
	},
}
