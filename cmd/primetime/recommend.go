// Recommend command for the primetime CLI.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

var recommendHorizon int

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank the best upcoming publish times",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "recommend", err)
		}
		defer svc.Close()

		horizon := recommendHorizon
		if horizon <= 0 {
			horizon = engineCfg.HorizonDays
		}

		recs, err := svc.recommender.RecommendTimes(horizon)
		if err != nil {
			if errors.Is(err, types.ErrNoOptimalTime) {
				fail(exitUserError, "recommend", fmt.Errorf("%w (run reconcile to build the table)", err))
			}
			fail(exitSysError, "recommend", err)
		}

		return respond(recs, func() {
			for i, r := range recs {
				fmt.Printf("%d. %s  score=%.1f confidence=%.2f\n",
					i+1, r.Time.Format(time.RFC3339), r.Score, r.Confidence)
			}
		})
	},
}

func init() {
	recommendCmd.Flags().IntVar(&recommendHorizon, "horizon", 0, "days to search ahead (default from config)")
}
