package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regcat-io/regcat/pkg/client"
)

var (
	conceptKeyword  string
	conceptVersion  string
	conceptDocument string
	conceptLimit    int
	conceptOffset   int
)

type conceptTable struct {
	Page *client.ConceptPage
}

func (t conceptTable) TableHeaders() []string {
	return []string{"ID", "NAME", "VERSION", "DEFINITION"}
}

func (t conceptTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Page.Concepts))
	for _, c := range t.Page.Concepts {
		rows = append(rows, []string{c.ID, c.Name, c.Version, truncate(c.Definition, 70)})
	}
	return rows
}

// NewConceptsCmd creates the concepts command group.
func NewConceptsCmd() *cobra.Command {
	conceptsCmd := &cobra.Command{
		Use:   "concepts",
		Short: "Browse the glossary of extracted terms",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List glossary concepts",
		RunE:  runConceptsList,
	}
	listCmd.Flags().StringVar(&conceptKeyword, "keyword", "", "filter by name keyword")
	listCmd.Flags().StringVar(&conceptVersion, "version", "", "filter by extraction pipeline version")
	listCmd.Flags().StringVar(&conceptDocument, "document", "", "filter by defining document ID")
	listCmd.Flags().IntVar(&conceptLimit, "limit", 20, "page size")
	listCmd.Flags().IntVar(&conceptOffset, "offset", 0, "page offset")

	getCmd := &cobra.Command{
		Use:   "get <concept-id>",
		Short: "Show one concept with its related terms",
		Args:  cobra.ExactArgs(1),
		RunE:  runConceptsGet,
	}

	conceptsCmd.AddCommand(listCmd, getCmd)
	return conceptsCmd
}

func runConceptsList(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	page, err := cliCtx.Client.Concepts().List(ctx, &client.ConceptListOptions{
		Keyword:    conceptKeyword,
		Version:    conceptVersion,
		DocumentID: conceptDocument,
		Limit:      conceptLimit,
		Offset:     conceptOffset,
	})
	if err != nil {
		return err
	}

	if err := PrintResult(cmd, conceptTable{Page: page}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d concepts\n", len(page.Concepts), page.Total)
	return nil
}

func runConceptsGet(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	detail, err := cliCtx.Client.Concepts().Get(ctx, args[0])
	if err != nil {
		return err
	}

	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd, detail)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", detail.Concept.Name, detail.Concept.ID)
	if detail.Concept.Definition != "" {
		fmt.Fprintf(out, "  %s\n", detail.Concept.Definition)
	}
	if len(detail.Related) > 0 {
		fmt.Fprintln(out, "Related:")
		for _, r := range detail.Related {
			fmt.Fprintf(out, "  - %s (%s)\n", r.Name, r.ID)
		}
	}
	return nil
}

//Personal.AI order the ending
