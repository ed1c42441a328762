package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regcat-io/regcat/pkg/client"
)

var (
	roKeyword  string
	roVersion  string
	roDocument string
	roLimit    int
	roOffset   int
)

type obligationTable struct {
	Page *client.ObligationPage
}

func (t obligationTable) TableHeaders() []string {
	return []string{"ID", "DOCUMENT", "VALUE"}
}

func (t obligationTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Page.Obligations))
	for _, o := range t.Page.Obligations {
		rows = append(rows, []string{o.ID, o.DocumentID, truncate(o.Value, 80)})
	}
	return rows
}

// NewObligationsCmd creates the obligations command group.
func NewObligationsCmd() *cobra.Command {
	obligationsCmd := &cobra.Command{
		Use:   "obligations",
		Short: "Browse extracted reporting obligations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List reporting obligations",
		RunE:  runObligationsList,
	}
	listCmd.Flags().StringVar(&roKeyword, "keyword", "", "filter by sentence keyword")
	listCmd.Flags().StringVar(&roVersion, "version", "", "filter by extraction pipeline version")
	listCmd.Flags().StringVar(&roDocument, "document", "", "filter by source document ID")
	listCmd.Flags().IntVar(&roLimit, "limit", 20, "page size")
	listCmd.Flags().IntVar(&roOffset, "offset", 0, "page offset")

	viewCmd := &cobra.Command{
		Use:   "view <document-id>",
		Short: "Show the graph view of a document's obligations",
		Args:  cobra.ExactArgs(1),
		RunE:  runObligationsView,
	}

	obligationsCmd.AddCommand(listCmd, viewCmd)
	return obligationsCmd
}

func runObligationsList(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	page, err := cliCtx.Client.Obligations().List(ctx, &client.ObligationListOptions{
		Keyword:    roKeyword,
		Version:    roVersion,
		DocumentID: roDocument,
		Limit:      roLimit,
		Offset:     roOffset,
	})
	if err != nil {
		return err
	}

	if err := PrintResult(cmd, obligationTable{Page: page}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d obligations\n", len(page.Obligations), page.Total)
	return nil
}

func runObligationsView(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	view, err := cliCtx.Client.Obligations().DocumentView(ctx, args[0])
	if err != nil {
		return err
	}

	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd, view)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Document %s: %d obligations\n", view.DocumentID, len(view.Obligations))
	for _, o := range view.Obligations {
		fmt.Fprintf(out, "- %s\n", o.Value)
		for _, e := range o.Entities {
			fmt.Fprintf(out, "    %s: %s\n", e.Predicate, e.Label)
		}
	}
	return nil
}

//Personal.AI order the ending
