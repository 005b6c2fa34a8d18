package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var (
	callTimeout time.Duration
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "storyjourney",
	Short: "Storyjourney - Illustrated interactive text adventures",
	Long: `Storyjourney plays a turn-based text adventure with a language model as narrator.

You seed a premise; each turn the narrator writes a scene with three numbered
options and an image model illustrates it. Pick an option to continue.

Required environment variables:
  OPENAI_API_KEY     - OpenAI API key for text and image generation`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&callTimeout, "call-timeout", 0, "Timeout for each text or image request (overrides STORY_CALL_TIMEOUT)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090 (overrides METRICS_ADDR)")
}
