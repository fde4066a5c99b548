// Publish command for the primetime CLI.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <item-id>",
	Short: "Mark a scheduled item as published and open its engagement tracking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "publish", err)
		}
		defer svc.Close()

		item, err := svc.orchestrator.OnPublish(args[0])
		if err != nil {
			fail(exitUserError, "publish item", err)
		}

		return respond(item, func() {
			fmt.Printf("Published %s at %s\n", item.ItemID, item.PublishedTime.Format(time.RFC3339))
		})
	},
}
