package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

var operationID string

var openapiCmd = &cobra.Command{
	Use:   "openapi [document]",
	Short: "Run the time inputs of an OpenAPI operation once",
	Long: `Builds a script from the request body of an OpenAPI 3 operation: every
string property with format "time" becomes a time input keyed by the
property name. Defaults, nullable and the x-step extension are honoured.

Example:
  formstate openapi api.yaml --operation createAlarm`,
	Args: cobra.ExactArgs(1),
	RunE: runOpenAPI,
}

func runOpenAPI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	fn, err := formstate.ScriptFromSource(ctx, pkgopenapi.SourceFromFile(args[0]), operationID, nil)
	if err != nil {
		return err
	}
	logger.Debug("Operation loaded", zap.String("document", args[0]), zap.String("operation", operationID))
	return runOnce(cmd, fn)
}
