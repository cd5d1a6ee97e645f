package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var collectionDescription string

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Group articles into collections",
}

var collectionAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionAdd,
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE:  runCollectionList,
}

func init() {
	collectionAddCmd.Flags().StringVarP(&collectionDescription, "description", "d", "", "collection description")

	collectionCmd.AddCommand(collectionAddCmd)
	collectionCmd.AddCommand(collectionListCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runCollectionAdd(cmd *cobra.Command, args []string) error {
	if err := requireService("collection", collectionService); err != nil {
		return err
	}

	c, err := collectionService.Create(cmd.Context(), args[0], collectionDescription)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	cmd.Printf("Created collection %q\n", c.Name)
	cmd.Printf("  ID: %s\n", c.ID)
	return nil
}

func runCollectionList(cmd *cobra.Command, _ []string) error {
	if err := requireService("collection", collectionService); err != nil {
		return err
	}

	collections, err := collectionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if len(collections) == 0 {
		cmd.Println("No collections.")
		return nil
	}

	for _, c := range collections {
		cmd.Printf("  %s  %s\n", c.ID, c.Name)
		if c.Description != "" {
			cmd.Printf("      %s\n", c.Description)
		}
	}
	return nil
}
