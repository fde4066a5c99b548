// Get command for the primetime CLI.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <item-id>",
	Short: "Show a content item and its engagement record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "get", err)
		}
		defer svc.Close()

		item, err := svc.backend.Content().Get(args[0])
		if err != nil {
			fail(exitUserError, "get item", err)
		}
		rec, err := svc.backend.Engagement().Get(args[0])
		if err != nil && !errors.Is(err, types.ErrRecordNotFound) {
			fail(exitSysError, "get engagement", err)
		}

		type result struct {
			Item       *types.ContentItem      `json:"item"`
			Engagement *types.EngagementRecord `json:"engagement,omitempty"`
		}
		return respond(result{Item: item, Engagement: rec}, func() {
			fmt.Printf("%s  %q  status=%s\n", item.ItemID, item.Title, item.Status)
			if item.ScheduledTime != nil {
				fmt.Printf("  scheduled: %s (optimal=%t)\n", item.ScheduledTime.Format(time.RFC3339), item.UsesOptimalTime)
			}
			if item.PublishedTime != nil {
				fmt.Printf("  published: %s\n", item.PublishedTime.Format(time.RFC3339))
			}
			if rec != nil {
				fmt.Printf("  engagement: views=%d clicks=%d shares=%d comments=%d score=%.1f rating=%s\n",
					rec.Views, rec.Clicks, rec.Shares, rec.Comments, rec.EngagementScore, rec.PerformanceRating)
			}
		})
	},
}
