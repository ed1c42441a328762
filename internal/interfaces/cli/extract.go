package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regcat-io/regcat/pkg/errors"
)

var extractForce bool

// NewExtractCmd creates the extract command group.  Triggers are queued on
// the server; the command returns once the jobs are dispatched, not when
// extraction finishes.
func NewExtractCmd() *cobra.Command {
	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Queue term or obligation extraction pipelines",
	}

	documentCmd := &cobra.Command{
		Use:   "document <document-id> <pipeline>",
		Short: "Queue one document for extraction (pipeline: terms, ro)",
		Args:  cobra.ExactArgs(2),
		RunE:  runExtractDocument,
	}
	documentCmd.Flags().BoolVar(&extractForce, "force", false, "re-extract even if the pipeline version already ran")

	websiteCmd := &cobra.Command{
		Use:   "website <website-id> <pipeline>",
		Short: "Queue every document of a website for extraction",
		Args:  cobra.ExactArgs(2),
		RunE:  runExtractWebsite,
	}
	websiteCmd.Flags().BoolVar(&extractForce, "force", false, "re-extract even if the pipeline version already ran")

	extractCmd.AddCommand(documentCmd, websiteCmd)
	return extractCmd
}

func checkPipeline(pipeline string) error {
	if pipeline != "terms" && pipeline != "ro" {
		return errors.New(errors.ErrCodeValidation,
			fmt.Sprintf("unknown pipeline %q (expected terms or ro)", pipeline))
	}
	return nil
}

func runExtractDocument(cmd *cobra.Command, args []string) error {
	if err := checkPipeline(args[1]); err != nil {
		return err
	}

	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	result, err := cliCtx.Client.Documents().Extract(ctx, args[0], args[1], extractForce)
	if err != nil {
		return err
	}

	PrintSuccess(cmd, fmt.Sprintf("queued %d extraction job(s)", result.Dispatched))
	return nil
}

func runExtractWebsite(cmd *cobra.Command, args []string) error {
	if err := checkPipeline(args[1]); err != nil {
		return err
	}

	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	result, err := cliCtx.Client.Documents().ExtractWebsite(ctx, args[0], args[1], extractForce)
	if err != nil {
		return err
	}

	PrintSuccess(cmd, fmt.Sprintf("queued %d extraction job(s)", result.Dispatched))
	return nil
}

//Personal.AI order the ending
