// List command for the primetime CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List content items by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !types.ValidStatus(listStatus) {
			fail(exitUserError, "list", fmt.Errorf("%w: %q", types.ErrInvalidStatus, listStatus))
		}

		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "list", err)
		}
		defer svc.Close()

		items, err := svc.backend.Content().ListByStatus(listStatus)
		if err != nil {
			fail(exitSysError, "list items", err)
		}

		return respond(items, func() {
			for _, item := range items {
				fmt.Printf("%s  %q\n", item.ItemID, item.Title)
			}
			fmt.Printf("%d item(s) with status %s\n", len(items), listStatus)
		})
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", types.StatusScheduled, "status to list (draft, scheduled, published)")
}
