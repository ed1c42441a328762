package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regcat-io/regcat/pkg/client"
)

var (
	docKeyword    string
	docCelex      string
	docWebsite    string
	docValidation string
	docLimit      int
	docOffset     int
)

// documentTable adapts a document page for tabular output.
type documentTable struct {
	Page *client.DocumentPage
}

func (t documentTable) TableHeaders() []string {
	return []string{"ID", "CELEX", "TITLE", "VALIDATION", "TERMS", "OBLIGATIONS"}
}

func (t documentTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Page.Documents))
	for _, d := range t.Page.Documents {
		validation := "done"
		if d.Unvalidated {
			validation = "pending"
		}
		rows = append(rows, []string{
			d.ID, d.Celex, truncate(d.Title, 60), validation, d.TermVersion, d.ObligationVersion,
		})
	}
	return rows
}

// NewDocumentsCmd creates the documents command group.
func NewDocumentsCmd() *cobra.Command {
	documentsCmd := &cobra.Command{
		Use:   "documents",
		Short: "Browse and annotate catalogue documents",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogue documents",
		RunE:  runDocumentsList,
	}
	listCmd.Flags().StringVar(&docKeyword, "keyword", "", "filter by title keyword")
	listCmd.Flags().StringVar(&docCelex, "celex", "", "filter by CELEX number")
	listCmd.Flags().StringVar(&docWebsite, "website", "", "filter by source website ID")
	listCmd.Flags().StringVar(&docValidation, "validation", "", "filter by validation state (pending, done)")
	listCmd.Flags().IntVar(&docLimit, "limit", 20, "page size")
	listCmd.Flags().IntVar(&docOffset, "offset", 0, "page offset")

	getCmd := &cobra.Command{
		Use:   "get <document-id>",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE:  runDocumentsGet,
	}

	commentsCmd := &cobra.Command{
		Use:   "comments <document-id>",
		Short: "List reviewer comments on a document",
		Args:  cobra.ExactArgs(1),
		RunE:  runDocumentsComments,
	}

	commentCmd := &cobra.Command{
		Use:   "comment <document-id> <text>",
		Short: "Attach a comment to a document",
		Args:  cobra.ExactArgs(2),
		RunE:  runDocumentsComment,
	}

	documentsCmd.AddCommand(listCmd, getCmd, commentsCmd, commentCmd)
	return documentsCmd
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	page, err := cliCtx.Client.Documents().List(ctx, &client.DocumentListOptions{
		Keyword:    docKeyword,
		Celex:      docCelex,
		WebsiteID:  docWebsite,
		Validation: docValidation,
		Limit:      docLimit,
		Offset:     docOffset,
	})
	if err != nil {
		return err
	}

	if err := PrintResult(cmd, documentTable{Page: page}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d documents\n", len(page.Documents), page.Total)
	return nil
}

func runDocumentsGet(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	doc, err := cliCtx.Client.Documents().Get(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, doc)
}

func runDocumentsComments(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	comments, err := cliCtx.Client.Documents().Comments(ctx, args[0])
	if err != nil {
		return err
	}

	for _, c := range comments {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", c.CreatedAt.Format("2006-01-02 15:04"), c.User, c.Value)
	}
	if len(comments) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No comments.")
	}
	return nil
}

func runDocumentsComment(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	comment, err := cliCtx.Client.Documents().AddComment(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	PrintSuccess(cmd, fmt.Sprintf("comment %s added", comment.ID))
	return nil
}

// truncate shortens s to at most n runes with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

//Personal.AI order the ending
