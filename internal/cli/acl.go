package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guardline-dev/guardline/internal/engine"
	"github.com/guardline-dev/guardline/internal/store"
)

var (
	aclFormat   string
	aclLanguage string
	aclNoCache  bool
	aclDBPath   string
)

func init() {
	rootCmd.AddCommand(aclCmd)
	aclCmd.Flags().StringVarP(&aclFormat, "format", "f", "text", "Output format (text|json)")
	aclCmd.Flags().StringVar(&aclLanguage, "language", "", "Language identifier (detected from the extension when omitted)")
	aclCmd.Flags().BoolVar(&aclNoCache, "no-cache", false, "Skip the on-disk result store")
	aclCmd.Flags().StringVar(&aclDBPath, "db", "", "Path to the result store (default ~/.guardline/results.db)")
}

var aclCmd = &cobra.Command{
	Use:   "acl <file>",
	Short: "Print per-line effective permissions for a file",
	Long: "Resolves every @guard tag in the file and prints the effective\n" +
		"permission state of each line for each actor.\n\n" +
		"Results are cached in an on-disk store keyed by content hash, so\n" +
		"unchanged files skip re-resolution.",
	Args: cobra.ExactArgs(1),
	RunE: runACL,
}

func runACL(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]

	doc, err := loadDoc(path, aclLanguage)
	if err != nil {
		return err
	}

	result, err := resolveWithStore(ctx, path, doc.Text(), func() (*engine.Result, error) {
		eng, err := newEngine()
		if err != nil {
			return nil, err
		}
		return eng.ComputeLinePermissions(ctx, doc)
	})
	if err != nil {
		return err
	}

	switch aclFormat {
	case "json":
		type lineEntry struct {
			Line        int               `json:"line"`
			Permissions map[string]string `json:"permissions"`
			Identifier  string            `json:"identifier,omitempty"`
		}
		entries := make([]lineEntry, 0, doc.LineCount())
		for n := 1; n <= doc.LineCount(); n++ {
			lp := result.PermissionAt(n)
			perms := make(map[string]string)
			for _, actor := range lp.Snapshot.Actors() {
				perms[actor] = lp.Snapshot.Get(actor).String()
			}
			entries = append(entries, lineEntry{Line: n, Permissions: perms, Identifier: lp.Identifier})
		}
		out, err := json.MarshalIndent(map[string]interface{}{
			"path":     path,
			"language": doc.LanguageID(),
			"lines":    entries,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		for n := 1; n <= doc.LineCount(); n++ {
			lp := result.PermissionAt(n)
			line := fmt.Sprintf("%4d  ", n)
			for _, actor := range lp.Snapshot.Actors() {
				line += fmt.Sprintf("%s=%-8s", actor, lp.Snapshot.Get(actor).String())
			}
			if lp.Identifier != "" {
				line += " [" + lp.Identifier + "]"
			}
			fmt.Println(line)
		}
	}

	return nil
}

// resolveWithStore checks the result store before computing and writes
// the result back on a miss. Store failures fall through to a fresh
// resolve instead of failing the command.
func resolveWithStore(ctx context.Context, path, text string, compute func() (*engine.Result, error)) (*engine.Result, error) {
	if aclNoCache {
		return compute()
	}

	dbPath := aclDBPath
	if dbPath == "" {
		p, err := store.DefaultPath()
		if err != nil {
			return compute()
		}
		dbPath = p
	}

	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: result store unavailable: %v\n", err)
		return compute()
	}
	defer func() { _ = st.Close() }()

	hash := store.HashText(text)
	if cached, ok, err := st.Get(ctx, path, hash); err == nil && ok {
		return cached, nil
	}

	result, err := compute()
	if err != nil {
		return nil, err
	}
	if err := st.Put(ctx, path, hash, result); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to cache result: %v\n", err)
	}
	return result, nil
}
