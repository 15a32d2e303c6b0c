package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/virtforge/vbox-cpi/internal/cpi"
)

var runCmd = &cobra.Command{
	Use:   "run <action> [param=value ...]",
	Short: "Dispatch a provider action",
	Long: `Dispatch the named action with the given parameters and print the result
record as JSON. Parameter values are coerced according to the action's
declared schema: integer parameters are parsed as base-10 integers, boolean
parameters as true/false, everything else stays a string.

Example:

  vbox-cpi run create_volume disk_path=/tmp/disk.vdi size_mb=10240`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := newProvider()
		if err != nil {
			return err
		}

		name := args[0]
		def, ok := provider.Definition(name)
		if !ok {
			return fmt.Errorf("Action '%s' not found", name)
		}

		params, err := parseParams(def, args[1:])
		if err != nil {
			return err
		}

		out, err := provider.ExecuteAction(cmd.Context(), name, params)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// parseParams converts key=value arguments into typed parameters using the
// action's schema. Keys the schema does not declare are passed through as
// strings; the dispatcher ignores them.
func parseParams(def cpi.ActionDefinition, args []string) (cpi.Params, error) {
	specs := make(map[string]cpi.ParameterSpec, len(def.Parameters))
	for _, ps := range def.Parameters {
		specs[ps.Name] = ps
	}

	params := make(cpi.Params, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", arg)
		}

		switch specs[key].Type {
		case cpi.TypeInteger:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s must be an integer: %q", key, value)
			}
			params[key] = n
		case cpi.TypeBoolean:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("parameter %s must be a boolean: %q", key, value)
			}
			params[key] = b
		default:
			params[key] = value
		}
	}
	return params, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
