// Reconcile command for the primetime CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one reconciliation pass: re-snap, rate, reschedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "reconcile", err)
		}
		defer svc.Close()

		report, err := svc.orchestrator.ReconcileSchedule()
		if err != nil {
			fail(exitSysError, "reconcile", err)
		}

		return respond(report, func() {
			fmt.Printf("Resnapped %d, rated %d, rescheduled %d\n",
				report.Resnapped, report.Rated, report.Rescheduled)
			for _, ie := range report.Errors {
				fmt.Printf("  item %s: %s\n", ie.ItemID, ie.Err)
			}
		})
	},
}
