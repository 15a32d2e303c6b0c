package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the provider's actions",
	Long:  `List every action the provider exposes, in declared order.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := newProvider()
		if err != nil {
			return err
		}
		for _, name := range provider.ListActions() {
			def, _ := provider.Definition(name)
			fmt.Printf("%-22s %s\n", name, def.Description)
		}
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <action>",
	Short: "Show an action's parameter schema",
	Long:  `Print the named action's definition, including each parameter's type, whether it is required, and its default, as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := newProvider()
		if err != nil {
			return err
		}
		def, ok := provider.Definition(args[0])
		if !ok {
			return fmt.Errorf("Action '%s' not found", args[0])
		}
		data, err := json.MarshalIndent(def, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(describeCmd)
}
