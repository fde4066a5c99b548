// Optimal-times command for the primetime CLI.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

var optimalTimesRefresh bool

var optimalTimesCmd = &cobra.Command{
	Use:   "optimal-times",
	Short: "Show (or rebuild) the optimal publish-time table",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "optimal-times", err)
		}
		defer svc.Close()

		var table types.OptimalTimeTable
		if optimalTimesRefresh {
			table, err = svc.recommender.RefreshTable()
		} else {
			table, err = svc.backend.OptimalTimes().Load()
		}
		if err != nil {
			fail(exitSysError, "optimal times", err)
		}

		return respond(table, func() {
			if len(table) == 0 {
				fmt.Println("No optimal-time table yet; run with --refresh.")
				return
			}
			for _, day := range types.DayNames {
				fmt.Printf("%-10s %s\n", day, strings.Join(table[day], "  "))
			}
		})
	},
}

func init() {
	optimalTimesCmd.Flags().BoolVar(&optimalTimesRefresh, "refresh", false, "recompute the table from engagement history")
}
