package cmd

import (
	"github.com/spf13/cobra"

	"github.com/docflow-ai/docflow-go/internal/output"
	"github.com/docflow-ai/docflow-go/internal/validation"
)

// printValidation lists the field problems of a blocked form submission.
func printValidation(cmd *cobra.Command, err error) {
	errs, ok := validation.AsErrors(err)
	if !ok {
		return
	}
	cmd.PrintErrln(output.Color("Submission blocked:", output.Red))
	for _, e := range errs {
		cmd.PrintErrf("  %s %s: %s\n", output.Checkmark(false), e.Field, e.Message)
	}
}
