package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	tagsFormat   string
	tagsLanguage string
)

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.Flags().StringVarP(&tagsFormat, "format", "f", "text", "Output format (text|json)")
	tagsCmd.Flags().StringVar(&tagsLanguage, "language", "", "Language identifier (detected from the extension when omitted)")
}

var tagsCmd = &cobra.Command{
	Use:   "tags <file>",
	Short: "List guard tags with their resolved line ranges",
	Args:  cobra.ExactArgs(1),
	RunE:  runTags,
}

func runTags(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	doc, err := loadDoc(args[0], tagsLanguage)
	if err != nil {
		return err
	}
	eng, err := newEngine()
	if err != nil {
		return err
	}

	tags, err := eng.ResolveTags(ctx, doc)
	if err != nil {
		return err
	}

	switch tagsFormat {
	case "json":
		out, err := json.MarshalIndent(tags, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		if len(tags) == 0 {
			fmt.Println("no guard tags")
			return nil
		}
		for _, t := range tags {
			scope := t.Scope
			if scope == "" {
				scope = "implicit"
			}
			claims := ""
			for i, actor := range t.Claims.Actors() {
				if i > 0 {
					claims += " "
				}
				name := actor
				if t.Identifier != "" {
					name += "[" + t.Identifier + "]"
				}
				claims += name + "=" + t.Claims.Get(actor).String()
			}
			fmt.Printf("line %-4d %-9s lines %d-%d  %s\n",
				t.Line, scope, t.ScopeStart, t.ScopeEnd, claims)
		}
	}

	return nil
}
