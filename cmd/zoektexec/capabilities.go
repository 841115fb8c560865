package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudshipai/zoektexec/internal/capabilities"
	"github.com/cloudshipai/zoektexec/internal/config"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Inspect the loaded capability manifest",
}

var capabilitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every capability hit in the manifest",
	RunE:  runCapabilitiesList,
}

var capabilitiesReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Print the full document for one capability id",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapabilitiesRead,
}

func init() {
	capabilitiesCmd.AddCommand(capabilitiesListCmd)
	capabilitiesCmd.AddCommand(capabilitiesReadCmd)
}

func loadCatalog() (*capabilities.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return capabilities.NewCatalog(cfg.ManifestPath)
}

func runCapabilitiesList(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	for _, hit := range cat.List() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", hit.ID, hit.Kind, hit.Summary)
	}
	return nil
}

func runCapabilitiesRead(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	id := args[0]
	doc, ok := cat.Read(id)
	if !ok {
		// read(id) absence is surfaced as an error document (spec.md §4.1);
		// the broker decides presentation, this CLI just prints it.
		doc = capabilities.ErrorDocument(id)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nkind: %s\ndescription: %s\n", doc.ID, doc.Kind, doc.Description)
	if doc.ScriptPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "script_path: %s\n", doc.ScriptPath)
	}
	for name, entry := range doc.ArgSchema {
		fmt.Fprintf(cmd.OutOrStdout(), "arg %s: type=%s required=%v\n", name, entry.Type, entry.Required)
	}
	return nil
}
