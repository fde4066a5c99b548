// Watch command for the primetime CLI: the long-running reconcile daemon.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/primetime/internal/jobs"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the periodic reconcile and A/B check jobs until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := zap.NewProduction()
		if err != nil {
			fail(exitSysError, "watch", err)
		}
		defer log.Sync()

		svc, err := attachServices()
		if err != nil {
			fail(exitSysError, "watch", err)
		}
		defer svc.Close()

		runner := jobs.NewRunner(log)
		err = runner.Register("reconcile-schedule", engineCfg.ReconcileSpec, func() error {
			report, err := svc.orchestrator.ReconcileSchedule()
			if err != nil {
				return err
			}
			log.Info("reconciled schedule",
				zap.Int("resnapped", report.Resnapped),
				zap.Int("rated", report.Rated),
				zap.Int("rescheduled", report.Rescheduled),
				zap.Int("item_errors", len(report.Errors)))
			for _, ie := range report.Errors {
				log.Warn("item skipped", zap.String("item", ie.ItemID), zap.Error(ie.Err))
			}
			return nil
		})
		if err != nil {
			fail(exitSysError, "watch", err)
		}

		err = runner.Register("abtest-check", engineCfg.ABCheckSpec, func() error {
			completed, errs := svc.abtests.CheckCompletedTests()
			if completed > 0 {
				log.Info("completed ab tests", zap.Int("count", completed))
			}
			for _, e := range errs {
				log.Warn("test skipped", zap.Error(e))
			}
			return nil
		})
		if err != nil {
			fail(exitSysError, "watch", err)
		}

		runner.Start()
		defer runner.Stop()
		log.Info("watching",
			zap.String("reconcile_spec", engineCfg.ReconcileSpec),
			zap.String("ab_check_spec", engineCfg.ABCheckSpec),
			zap.String("data_dir", svc.dataDir))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		return nil
	},
}
