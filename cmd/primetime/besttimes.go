// Best-times command for the primetime CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

var bestTimesCmd = &cobra.Command{
	Use:   "best-times",
	Short: "Show the historically best publish hours per day",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "best-times", err)
		}
		defer svc.Close()

		best, err := svc.recommender.BestTimes()
		if err != nil {
			fail(exitSysError, "best times", err)
		}

		return respond(best, func() {
			if len(best) == 0 {
				fmt.Println("No engagement history yet.")
				return
			}
			for _, day := range types.DayNames {
				slots, ok := best[day]
				if !ok {
					continue
				}
				fmt.Printf("%s:\n", day)
				for _, s := range slots {
					fmt.Printf("  %s  avg=%.1f samples=%d\n", types.FormatSlot(s.Hour), s.AvgScore, s.SampleCount)
				}
			}
		})
	},
}
