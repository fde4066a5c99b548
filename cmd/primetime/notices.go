// Notices command for the primetime CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var noticesCmd = &cobra.Command{
	Use:   "notices",
	Short: "Show and clear pending reschedule notices",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "notices", err)
		}
		defer svc.Close()

		notices, err := svc.orchestrator.Notices()
		if err != nil {
			fail(exitSysError, "notices", err)
		}

		return respond(notices, func() {
			if len(notices) == 0 {
				fmt.Println("No pending notices.")
				return
			}
			for _, n := range notices {
				fmt.Println(n.Message)
			}
		})
	},
}
