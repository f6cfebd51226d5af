package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yozuk/yozuk-sub000/pkg/config"
	"github.com/yozuk/yozuk-sub000/pkg/logger"
	"github.com/yozuk/yozuk-sub000/pkg/presenter"
	"github.com/yozuk/yozuk-sub000/pkg/telemetry"
	"github.com/yozuk/yozuk-sub000/pkg/version"
)

var (
	cfg            *config.Config
	shutdownTracer telemetry.Shutdown
	out            = presenter.New()
)

var rootCmd = &cobra.Command{
	Use:   "yozuk",
	Short: "Resolve free text requests into skill commands",
	Long: `Yozuk turns requests such as "md5 hello world" or "generate 3 uuids" into
commands of its bundled skills and runs them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.Read(viper.GetViper()); err != nil {
			return err
		}
		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded
		if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
			return err
		}
		shutdownTracer, err = telemetry.Init(cmd.Context(), cfg.Tracing, version.Get().Version)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if shutdownTracer == nil {
			return nil
		}
		return shutdownTracer(cmd.Context())
	},
}

func init() {
	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "fmt", "Log format (fmt, json)")
	flags.StringP("model", "m", config.DefaultModelPath(), "Path of the packaged model set")
	flags.StringSlice("skills", nil, "Only enable the named skills")
	flags.Bool("tracing-enabled", false, "Enable OpenTelemetry tracing")
	flags.String("tracing-sampler", "ratio", "Tracing sampler type (always, never, ratio)")
	flags.Float64("tracing-ratio", 1, "Sampling ratio when using the ratio sampler")

	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("model", flags.Lookup("model"))
	viper.BindPFlag("allowlist", flags.Lookup("skills"))
	viper.BindPFlag("tracing.enabled", flags.Lookup("tracing-enabled"))
	viper.BindPFlag("tracing.sampler", flags.Lookup("tracing-sampler"))
	viper.BindPFlag("tracing.ratio", flags.Lookup("tracing-ratio"))

	rootCmd.AddCommand(resolveCmd, runCmd, modelgenCmd, versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		out.Error(err, "")
		os.Exit(1)
	}
}
