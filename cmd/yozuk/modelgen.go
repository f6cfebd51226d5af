package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yozuk/yozuk-sub000/pkg/logger"
	"github.com/yozuk/yozuk-sub000/pkg/modelcache"
	"github.com/yozuk/yozuk-sub000/pkg/modelgen"
	"github.com/yozuk/yozuk-sub000/pkg/skills"
)

var modelgenCmd = &cobra.Command{
	Use:   "modelgen",
	Short: "Train the skill models and write the packaged model set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = cfg.Model
		}

		opts := []modelgen.Option{
			modelgen.WithEnvironment(environment()),
			modelgen.WithLogger(logger.G(ctx)),
		}
		if cfg.Modelgen.Epochs > 0 {
			opts = append(opts, modelgen.WithEpochs(cfg.Modelgen.Epochs))
		}
		if cfg.Modelgen.Cache != "" {
			cache, err := modelcache.Open(ctx, cfg.Modelgen.Cache)
			if err != nil {
				return err
			}
			defer cache.Close()
			if _, err := cache.Prune(ctx, skills.Keys(skills.Skills)); err != nil {
				return err
			}
			opts = append(opts, modelgen.WithCache(cache))
		}

		written, err := modelgen.WriteFile(ctx, output, skills.Skills, opts...)
		if err != nil {
			return err
		}
		if written {
			out.Success("Model set written to " + output)
		} else {
			out.Success("Model set " + output + " is up to date")
		}
		return nil
	},
}

func init() {
	modelgenCmd.Flags().StringP("output", "o", "", "Output path (defaults to the configured model path)")
	modelgenCmd.Flags().String("cache", "", "Sqlite model cache path")
	modelgenCmd.Flags().Int("epochs", 0, "Training epochs (0 uses the default)")
	viper.BindPFlag("modelgen.cache", modelgenCmd.Flags().Lookup("cache"))
	viper.BindPFlag("modelgen.epochs", modelgenCmd.Flags().Lookup("epochs"))
}
