// Engage command for the primetime CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	engageViews    int
	engageClicks   int
	engageShares   int
	engageComments int
)

var engageCmd = &cobra.Command{
	Use:   "engage <item-id>",
	Short: "Record engagement events against a content item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "engage", err)
		}
		defer svc.Close()

		rec, err := svc.orchestrator.RecordEngagement(args[0],
			engageViews, engageClicks, engageShares, engageComments)
		if err != nil {
			fail(exitUserError, "record engagement", err)
		}

		return respond(rec, func() {
			fmt.Printf("%s: views=%d clicks=%d shares=%d comments=%d score=%.1f\n",
				rec.ContentItemID, rec.Views, rec.Clicks, rec.Shares, rec.Comments, rec.EngagementScore)
		})
	},
}

func init() {
	engageCmd.Flags().IntVar(&engageViews, "views", 0, "views to add")
	engageCmd.Flags().IntVar(&engageClicks, "clicks", 0, "clicks to add")
	engageCmd.Flags().IntVar(&engageShares, "shares", 0, "shares to add")
	engageCmd.Flags().IntVar(&engageComments, "comments", 0, "comments to add")
}
