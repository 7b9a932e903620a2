package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var scopesFormat string

func init() {
	rootCmd.AddCommand(scopesCmd)
	scopesCmd.Flags().StringVarP(&scopesFormat, "format", "f", "text", "Output format (text|json)")
}

var scopesCmd = &cobra.Command{
	Use:   "scopes [language]",
	Short: "Inspect the structural scope mapping table",
	Long: "Without arguments, lists every supported language. With a language,\n" +
		"shows which node types each scope keyword resolves to and the\n" +
		"comment markers used for tag detection.",
	Args: cobra.MaximumNArgs(1),
	RunE: runScopes,
}

func runScopes(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	table := eng.Table()

	if len(args) == 0 {
		langs := table.Languages()
		if scopesFormat == "json" {
			out, _ := json.MarshalIndent(langs, "", "  ")
			fmt.Println(string(out))
			return nil
		}
		for _, lang := range langs {
			fmt.Printf("%-12s structure=%s\n", lang, table.Structure(lang))
		}
		return nil
	}

	lang := strings.ToLower(args[0])
	if !table.Supported(lang) {
		return fmt.Errorf("language %q is not in the mapping table", lang)
	}

	scopes := table.Scopes(lang)
	if scopesFormat == "json" {
		out, _ := json.MarshalIndent(map[string]interface{}{
			"language":      lang,
			"structure":     table.Structure(lang),
			"scopes":        scopes,
			"lineComments":  table.LineComments(lang),
			"blockComments": table.BlockComments(lang),
		}, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("language:  %s\n", lang)
	fmt.Printf("structure: %s\n", table.Structure(lang))
	fmt.Printf("comments:  line=%v block=%v\n", table.LineComments(lang), table.BlockComments(lang))

	keywords := make([]string, 0, len(scopes))
	for kw := range scopes {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	for _, kw := range keywords {
		fmt.Printf("  %-8s -> %s\n", kw, strings.Join(scopes[kw], ", "))
	}
	return nil
}
