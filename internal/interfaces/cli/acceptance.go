package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/regcat-io/regcat/pkg/errors"
)

// validEntityKinds mirrors the API's acceptance entity vocabulary.
var validEntityKinds = []string{"concept", "obligation", "document"}

// NewAcceptanceCmd creates the acceptance command group.
func NewAcceptanceCmd() *cobra.Command {
	acceptanceCmd := &cobra.Command{
		Use:   "acceptance",
		Short: "Inspect and record validation verdicts",
	}

	valuesCmd := &cobra.Command{
		Use:   "values",
		Short: "Show the verdict vocabulary",
		RunE:  runAcceptanceValues,
	}

	getCmd := &cobra.Command{
		Use:   "get <entity-kind> <entity-id>",
		Short: "List verdicts recorded on an entity",
		Args:  cobra.ExactArgs(2),
		RunE:  runAcceptanceGet,
	}

	setCmd := &cobra.Command{
		Use:   "set <entity-kind> <entity-id> <value>",
		Short: "Record the acting user's verdict on an entity",
		Long:  "Records a verdict (Accepted, Rejected or Unvalidated) as the user given\nby --user or $REGCAT_USER.",
		Args:  cobra.ExactArgs(3),
		RunE:  runAcceptanceSet,
	}

	acceptanceCmd.AddCommand(valuesCmd, getCmd, setCmd)
	return acceptanceCmd
}

func checkEntityKind(kind string) error {
	for _, k := range validEntityKinds {
		if kind == k {
			return nil
		}
	}
	return errors.New(errors.ErrCodeValidation,
		fmt.Sprintf("unknown entity kind %q (expected one of %s)", kind, strings.Join(validEntityKinds, ", ")))
}

func runAcceptanceValues(cmd *cobra.Command, args []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	values, err := cliCtx.Client.Acceptance().Values(ctx)
	if err != nil {
		return err
	}

	for _, v := range values {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

func runAcceptanceGet(cmd *cobra.Command, args []string) error {
	if err := checkEntityKind(args[0]); err != nil {
		return err
	}

	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	states, err := cliCtx.Client.Acceptance().Get(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd, states)
	}

	out := cmd.OutOrStdout()
	for _, s := range states {
		owner := "model"
		if s.UserID != nil {
			owner = *s.UserID
		} else if s.ModelName != nil {
			owner = *s.ModelName
		}
		fmt.Fprintf(out, "%-12s %-10s p=%.2f\n", owner, s.Value, s.Probability)
	}
	if len(states) == 0 {
		fmt.Fprintln(out, "No verdicts recorded.")
	}
	return nil
}

func runAcceptanceSet(cmd *cobra.Command, args []string) error {
	if err := checkEntityKind(args[0]); err != nil {
		return err
	}

	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(cmd, cliCtx)
	defer cancel()

	if err := cliCtx.Client.Acceptance().Set(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}

	PrintSuccess(cmd, fmt.Sprintf("%s %s marked %s", args[0], args[1], args[2]))
	return nil
}

//Personal.AI order the ending
