// The enrich binary runs enrichment batches from the command line, either
// once or on a cron schedule.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mealdex/enrich/internal/app"
	"github.com/mealdex/enrich/internal/enrich"
	"github.com/mealdex/enrich/internal/infrastructure/config"
)

var (
	configPath string
	refresh    string
	apply      bool
)

func main() {
	root := &cobra.Command{
		Use:          "enrich",
		Short:        "Recipe database enrichment pipeline",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Process one batch of incomplete recipes",
		RunE:  runOnce,
	}
	runCmd.Flags().StringVar(&refresh, "refresh", "", "refresh mode: notion, website or ai")
	runCmd.Flags().BoolVar(&apply, "apply", false, "write suggested changes back to the store")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run batches on the configured cron schedule",
		RunE:  runScheduled,
	}

	root.AddCommand(runCmd, scheduleCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context) (*app.App, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer application.Close()

	mode := enrich.ParseMode(refresh)
	results, stats, err := application.Orchestrator.RunBatch(ctx, mode)
	if err != nil {
		return err
	}

	for _, r := range results {
		fmt.Printf("%-40s %d suggestions\n", r.Recipe.Title, r.Changes.SuggestionCount())
		if apply && !r.Changes.Empty() {
			if err := application.Orchestrator.ApplyChangeSet(ctx, r.Recipe.ID, r.Changes); err != nil {
				application.Logger.Error("apply failed",
					zap.String("recipe_id", r.Recipe.ID), zap.Error(err))
			}
		}
	}
	fmt.Printf("\n%d recipes, %d suggestions, %d images, %d failed\n",
		stats.TotalRecipes, stats.TotalSuggestions, stats.ImagesFound, stats.Failed)

	if stats.Failed > 0 {
		return fmt.Errorf("%d recipes failed", stats.Failed)
	}
	return nil
}

func runScheduled(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer application.Close()

	log := application.Logger
	schedule := application.Config.Enrichment.CronSchedule

	c := cron.New()
	_, err = c.AddFunc(schedule, func() {
		results, stats, err := application.Orchestrator.RunBatch(ctx, enrich.ModeStandard)
		if err != nil {
			log.Error("scheduled run failed", zap.Error(err))
			return
		}
		log.Info("scheduled run complete",
			zap.Int("recipes", stats.TotalRecipes),
			zap.Int("suggestions", stats.TotalSuggestions))

		if application.Mailer.Enabled() {
			if err := application.Mailer.SendSummary(results, stats); err != nil {
				log.Warn("summary email failed", zap.Error(err))
			}
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	log.Info("scheduler started", zap.String("schedule", schedule))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("scheduler stopped")
	return nil
}
