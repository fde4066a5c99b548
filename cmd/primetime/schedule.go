// Schedule command for the primetime CLI.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

var (
	scheduleAt      string
	scheduleOptimal bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <item-id>",
	Short: "Schedule a content item at a manual or optimal time",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scheduleAt == "" && !scheduleOptimal {
			fail(exitUserError, "schedule", errors.New("either --at or --optimal is required"))
		}

		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "schedule", err)
		}
		defer svc.Close()

		var item *types.ContentItem
		if scheduleOptimal {
			var fallback *time.Time
			if scheduleAt != "" {
				t, err := time.Parse(time.RFC3339, scheduleAt)
				if err != nil {
					fail(exitUserError, "schedule", fmt.Errorf("%w: %q", types.ErrInvalidTimeSlot, scheduleAt))
				}
				fallback = &t
			}
			item, err = svc.orchestrator.ScheduleOptimally(args[0], fallback)
			if errors.Is(err, types.ErrNoOptimalTime) {
				fail(exitUserError, "schedule", fmt.Errorf("%w (supply --at as a fallback)", err))
			}
		} else {
			at, perr := time.Parse(time.RFC3339, scheduleAt)
			if perr != nil {
				fail(exitUserError, "schedule", fmt.Errorf("%w: %q", types.ErrInvalidTimeSlot, scheduleAt))
			}
			item, err = svc.orchestrator.ScheduleAt(args[0], at)
		}
		if err != nil {
			fail(exitUserError, "schedule item", err)
		}

		return respond(item, func() {
			fmt.Printf("Scheduled %s for %s (optimal=%t)\n",
				item.ItemID, item.ScheduledTime.Format(time.RFC3339), item.UsesOptimalTime)
		})
	},
	Args: cobra.ExactArgs(1),
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleAt, "at", "", "publish time, RFC 3339 (fallback when combined with --optimal)")
	scheduleCmd.Flags().BoolVar(&scheduleOptimal, "optimal", false, "pick the engagement-optimal time")
}
