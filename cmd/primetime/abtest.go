// A/B test commands for the primetime CLI.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

var abtestCmd = &cobra.Command{
	Use:   "abtest",
	Short: "Manage A/B tests",
}

var (
	abCreateType     string
	abCreateItem     string
	abCreateVariantA string
	abCreateVariantB string
	abCreateDays     int
)

var abtestCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Start an A/B test between two variant content items",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "abtest create", err)
		}
		defer svc.Close()

		test := &types.ABTest{
			TestType:      abCreateType,
			ContentItemID: abCreateItem,
			VariantA:      types.Variant{ContentItemID: abCreateVariantA},
			VariantB:      types.Variant{ContentItemID: abCreateVariantB},
		}
		if abCreateDays > 0 {
			test.EndsAt = time.Now().AddDate(0, 0, abCreateDays)
		}
		// Carry variant fields over from the linked items so the winner
		// can be merged back later.
		for _, v := range []*types.Variant{&test.VariantA, &test.VariantB} {
			if v.ContentItemID == "" {
				continue
			}
			item, err := svc.backend.Content().Get(v.ContentItemID)
			if err != nil {
				fail(exitUserError, "abtest create", err)
			}
			v.Title = item.Title
			v.Content = item.Body
			v.ScheduledTime = item.ScheduledTime
		}

		id, err := svc.abtests.CreateTest(test)
		if err != nil {
			fail(exitUserError, "create test", err)
		}

		return respond(test, func() {
			fmt.Printf("Created %s test: %s (ends %s)\n", test.TestType, id, test.EndsAt.Format(time.RFC3339))
		})
	},
}

var abEndWinner string

var abtestEndCmd = &cobra.Command{
	Use:   "end <test-id>",
	Short: "End a test, resolving the winner from engagement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "abtest end", err)
		}
		defer svc.Close()

		test, err := svc.abtests.EndTest(args[0], abEndWinner)
		if err != nil {
			fail(exitUserError, "end test", err)
		}

		return respond(test, func() {
			fmt.Printf("Test %s completed: winner=%s confidence=%.2f significant=%t\n",
				test.TestID, test.Winner, test.Confidence, test.Significant)
		})
	},
}

var abtestResultsCmd = &cobra.Command{
	Use:   "results <test-id>",
	Short: "Show a test's current comparison without ending it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "abtest results", err)
		}
		defer svc.Close()

		test, err := svc.backend.Tests().Get(args[0])
		if err != nil {
			fail(exitUserError, "get test", err)
		}
		result, err := svc.abtests.CalculateResults(test)
		if err != nil {
			fail(exitSysError, "calculate results", err)
		}

		return respond(result, func() {
			fmt.Printf("A=%.1f  B=%.1f  winner=%s confidence=%.2f significant=%t\n",
				result.ScoreA, result.ScoreB, result.Winner, result.Confidence, result.Significant)
		})
	},
}

var abtestCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Resolve every active test whose end date has passed",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "abtest check", err)
		}
		defer svc.Close()

		completed, errs := svc.abtests.CheckCompletedTests()

		type result struct {
			Completed int      `json:"completed"`
			Errors    []string `json:"errors,omitempty"`
		}
		res := result{Completed: completed}
		for _, e := range errs {
			res.Errors = append(res.Errors, e.Error())
		}
		return respond(res, func() {
			fmt.Printf("Completed %d test(s)\n", completed)
			for _, e := range errs {
				fmt.Printf("  %s\n", e)
			}
		})
	},
}

func init() {
	abtestCreateCmd.Flags().StringVar(&abCreateType, "type", "", "test type (title, content, timing, platform)")
	abtestCreateCmd.Flags().StringVar(&abCreateItem, "item", "", "canonical item the winner merges into")
	abtestCreateCmd.Flags().StringVar(&abCreateVariantA, "variant-a", "", "content item ID for variant A")
	abtestCreateCmd.Flags().StringVar(&abCreateVariantB, "variant-b", "", "content item ID for variant B")
	abtestCreateCmd.Flags().IntVar(&abCreateDays, "days", 7, "test duration in days")
	abtestCreateCmd.MarkFlagRequired("type")
	abtestCreateCmd.MarkFlagRequired("variant-a")
	abtestCreateCmd.MarkFlagRequired("variant-b")

	abtestEndCmd.Flags().StringVar(&abEndWinner, "winner", "", "explicit winner (A, B, tie); empty lets metrics decide")

	abtestCmd.AddCommand(abtestCreateCmd)
	abtestCmd.AddCommand(abtestEndCmd)
	abtestCmd.AddCommand(abtestResultsCmd)
	abtestCmd.AddCommand(abtestCheckCmd)
}
