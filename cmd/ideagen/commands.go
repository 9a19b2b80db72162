package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/viratco/idea/internal/config"
	"github.com/viratco/idea/internal/domain/entity"
	"github.com/viratco/idea/internal/infrastructure/messaging"
	"github.com/viratco/idea/internal/infrastructure/persistence/redis"
	"github.com/viratco/idea/pkg/client"
	"github.com/viratco/idea/pkg/logger"
)

type rootOptions struct {
	server  string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "ideagen",
		Short:         "ideagen - AI startup idea, business plan and metrics generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultServer := os.Getenv("IDEAGEN_SERVER")
	if defaultServer == "" {
		defaultServer = client.DefaultBaseURL
	}
	rootCmd.PersistentFlags().StringVarP(&opts.server, "server", "s", defaultServer, "Idea generation server base URL")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Overall command timeout")

	rootCmd.AddCommand(
		newIdeaCmd(opts),
		newPlanCmd(opts),
		newMetricsCmd(opts),
		newHealthCmd(opts),
		newWatchCmd(),
	)
	return rootCmd
}

func (o *rootOptions) context() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

type ideaFlags struct {
	file        string
	budgetMin   float64
	budgetMax   float64
	userType    string
	industries  []string
	skills      []string
	commitment  string
	risk        string
	challenges  []string
	niche       string
	trending    bool
	competitors bool
}

// params 参数文件优先，其余从命令行标志组装
func (f *ideaFlags) params() (entity.GenerationParameters, error) {
	var p entity.GenerationParameters
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return p, fmt.Errorf("failed to read parameters file: %w", err)
		}
		if err := json.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("failed to parse parameters file: %w", err)
		}
		return p, nil
	}

	p = entity.GenerationParameters{
		Budget:             entity.Budget{Min: f.budgetMin, Max: f.budgetMax},
		UserType:           f.userType,
		Industries:         f.industries,
		TechnicalSkills:    f.skills,
		TimeCommitment:     f.commitment,
		RiskLevel:          entity.RiskLevel(f.risk),
		Challenges:         f.challenges,
		FocusNiche:         f.niche,
		SuggestTrending:    f.trending,
		SuggestCompetitors: f.competitors,
	}
	return p, nil
}

func newIdeaCmd(root *rootOptions) *cobra.Command {
	f := &ideaFlags{}
	cmd := &cobra.Command{
		Use:   "idea",
		Short: "Generate a startup idea",
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := f.params()
			if err != nil {
				return err
			}
			ctx, cancel := root.context()
			defer cancel()

			out := cmd.OutOrStdout()
			printTitle(out, "Generating Startup Idea")
			text, err := client.New(root.server).GenerateIdea(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to generate idea: %w", err)
			}
			printSeparator(out)
			fmt.Fprintln(out, text)
			printSeparator(out)
			printSuccess(out, "Idea generated")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.file, "file", "f", "", "JSON file with generation parameters")
	flags.Float64Var(&f.budgetMin, "budget-min", 0, "Minimum budget")
	flags.Float64Var(&f.budgetMax, "budget-max", 5000, "Maximum budget")
	flags.StringVar(&f.userType, "user-type", "", "Who you are (student, professional, ...)")
	flags.StringSliceVarP(&f.industries, "industry", "i", nil, "Industry of interest (repeatable)")
	flags.StringSliceVar(&f.skills, "skill", nil, "Technical skill (repeatable)")
	flags.StringVar(&f.commitment, "time", "", "Time commitment")
	flags.StringVar(&f.risk, "risk", string(entity.RiskMedium), "Risk level: low, medium, high")
	flags.StringSliceVar(&f.challenges, "challenge", nil, "Challenge to address (repeatable)")
	flags.StringVar(&f.niche, "niche", "", "Focus niche")
	flags.BoolVar(&f.trending, "trending", false, "Suggest trending ideas")
	flags.BoolVar(&f.competitors, "competitors", false, "Suggest competitors")
	return cmd
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	var fitness string
	cmd := &cobra.Command{
		Use:   "plan <title>",
		Short: "Generate a business plan introduction and metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.context()
			defer cancel()

			out := cmd.OutOrStdout()
			c := client.New(root.server, client.WithRetryHook(func(attempt, maxRetries int) {
				printWarning(out, "Generation taking longer than expected. Retrying... (%d/%d)", attempt, maxRetries)
			}))

			printTitle(out, "Generating Business Plan: %s", args[0])
			res, err := c.GenerateBusinessPlan(ctx, args[0], fitness)
			if err != nil {
				return err
			}
			printSeparator(out)
			fmt.Fprintln(out, res.Introduction)
			printSeparator(out)
			printMetrics(out, res.Metrics)
			printSuccess(out, "Business plan generated")
			return nil
		},
	}
	cmd.Flags().StringVar(&fitness, "fitness", "", "Idea fitness assessment")
	_ = cmd.MarkFlagRequired("fitness")
	return cmd
}

func newMetricsCmd(root *rootOptions) *cobra.Command {
	var fitness string
	cmd := &cobra.Command{
		Use:   "metrics <title>",
		Short: "Generate a business metrics snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.context()
			defer cancel()

			out := cmd.OutOrStdout()
			printTitle(out, "Generating Metrics: %s", args[0])
			m, err := client.New(root.server).GenerateMetrics(ctx, args[0], fitness)
			if err != nil {
				return fmt.Errorf("failed to generate metrics: %w", err)
			}
			printMetrics(out, *m)
			printSuccess(out, "Metrics generated")
			return nil
		},
	}
	cmd.Flags().StringVar(&fitness, "fitness", "", "Idea fitness assessment")
	_ = cmd.MarkFlagRequired("fitness")
	return cmd
}

func newHealthCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := root.context()
			defer cancel()

			h, err := client.New(root.server).Health(ctx)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Server %s is %s", root.server, h.Status)
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	var (
		configDir string
		channel   string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream metrics lifecycle events from Redis",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFromDir(configDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

			if channel == "" {
				channel = cfg.Messaging.MetricsChannel
			}
			if channel == "" {
				return fmt.Errorf("no metrics channel configured")
			}

			rc, err := redis.NewClient(&cfg.Cache.Redis)
			if err != nil {
				return err
			}
			defer rc.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			printInfo(out, "Watching %s on %s (Ctrl+C to stop)", channel, cfg.Cache.Redis.Addr())
			return messaging.NewSubscriber(rc).Listen(ctx, channel, func(_ context.Context, msg *messaging.Message) error {
				return printEvent(out, msg)
			})
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", config.DefaultConfigDir, "Configuration directory")
	cmd.Flags().StringVar(&channel, "channel", "", "Override the metrics channel")
	return cmd
}
