package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guardline-dev/guardline/internal/model"
)

var (
	checkLine     int
	checkActor    string
	checkWrite    bool
	checkLanguage string
	checkQuiet    bool
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntVarP(&checkLine, "line", "L", 0, "1-based line number to check (required)")
	checkCmd.Flags().StringVarP(&checkActor, "actor", "a", "ai", "Actor to check (ai, human, or a custom name)")
	checkCmd.Flags().BoolVarP(&checkWrite, "write", "w", false, "Require write access instead of read")
	checkCmd.Flags().StringVar(&checkLanguage, "language", "", "Language identifier (detected from the extension when omitted)")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Suppress output, exit code only")
	checkCmd.MarkFlagRequired("line")
}

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check whether an actor may touch a line",
	Long: "Resolves the file and reports whether the actor holds the required\n" +
		"access on the given line.\n\n" +
		"Exit code 0 if access is granted, 1 if denied.\n" +
		"Use as a pre-edit gate in agent hooks or CI.",
	Args: cobra.ExactArgs(1),
	RunE: runCheckLine,
}

func runCheckLine(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	doc, err := loadDoc(args[0], checkLanguage)
	if err != nil {
		return err
	}
	if checkLine < 1 || checkLine > doc.LineCount() {
		return fmt.Errorf("line %d out of range (1-%d)", checkLine, doc.LineCount())
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}
	result, err := eng.ComputeLinePermissions(ctx, doc)
	if err != nil {
		return err
	}

	actor := strings.ToLower(checkActor)
	required := model.AccessRead
	if checkWrite {
		required = model.AccessWrite
	}

	state := result.PermissionAt(checkLine).Snapshot.Get(actor)
	allowed := state.Allows(required)

	if !checkQuiet {
		verdict := "DENIED"
		if allowed {
			verdict = "OK"
		}
		fmt.Printf("%s %s:%d %s %s (state: %s)\n",
			verdict, args[0], checkLine, actor, required.String(), state.String())
	}

	if !allowed {
		os.Exit(1)
	}
	return nil
}
