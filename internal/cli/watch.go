package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/guardline-dev/guardline/internal/store"
	"github.com/guardline-dev/guardline/internal/watch"
)

var (
	watchNoStore bool
	watchDBPath  string
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchNoStore, "no-store", false, "Do not persist results to the on-disk store")
	watchCmd.Flags().StringVar(&watchDBPath, "db", "", "Path to the result store (default ~/.guardline/results.db)")
}

var watchCmd = &cobra.Command{
	Use:   "watch <file...>",
	Short: "Re-resolve files when they change on disk",
	Long: "Watches the given files and re-resolves their permissions after each\n" +
		"change settles. Results are written to the on-disk store so later\n" +
		"acl calls on unchanged content are instant.",
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, err := newEngine()
	if err != nil {
		return err
	}

	var st *store.Store
	if !watchNoStore {
		dbPath := watchDBPath
		if dbPath == "" {
			dbPath, err = store.DefaultPath()
			if err != nil {
				return fmt.Errorf("failed to locate result store: %w", err)
			}
		}
		st, err = store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		defer func() { _ = st.Close() }()
	}

	sweep := func(path string) {
		doc, err := loadDoc(path, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
			return
		}
		result, err := eng.ComputeLinePermissions(ctx, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "watch: %s: %v\n", path, err)
			return
		}
		if st != nil {
			if err := st.Put(ctx, path, store.HashText(doc.Text()), result); err != nil {
				fmt.Fprintf(os.Stderr, "watch: failed to store %s: %v\n", path, err)
			}
		}
		fmt.Printf("%s: %d lines, %d tags\n", path, doc.LineCount(), len(result.Tags))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nStopping watcher...")
		cancel()
	}()

	// Initial sweep so every watched file has a fresh result before the
	// first change arrives.
	for _, path := range args {
		sweep(path)
	}

	fmt.Fprintf(os.Stderr, "Watching %d file(s)\n", len(args))
	return watch.New(args, sweep).Run(ctx)
}
