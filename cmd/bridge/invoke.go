package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"supplychain/internal/actions"

	"github.com/spf13/cobra"
)

// invokeCmd runs one action from the command line
var invokeCmd = &cobra.Command{
	Use:   "invoke <action> [field=value ...]",
	Short: "Run a single action and print the result as JSON",
	Long: `Run one action with the given form fields and print the result as JSON.

Examples:
  bridge invoke registerActor role=supplier name=Acme address=0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1 location=Porto
  bridge invoke registerProduct name=Phone description="5G phone" price=0.5
  bridge invoke queryProduct productId=0
  bridge invoke advanceStage productId=0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInvoke,
}

// actionsCmd lists the registered actions
var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List available actions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range actions.NewRegistry().Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func runInvoke(cmd *cobra.Command, args []string) error {
	form, err := parseFields(args[1:])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	bridge, cleanup := connect(ctx, cfg)
	defer cleanup()

	result, err := actions.NewRegistry().Dispatch(ctx, args[0], bridge, form)
	if err != nil {
		return fmt.Errorf("%s error: %w", actions.Kind(err), err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// parseFields turns field=value arguments into a form.
func parseFields(args []string) (actions.Form, error) {
	form := make(actions.Form, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q (want field=value)", arg)
		}
		form[key] = value
	}
	return form, nil
}
