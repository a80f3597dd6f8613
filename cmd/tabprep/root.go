package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tabprep/pkg/config"
	"tabprep/pkg/logger"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "tabprep",
		Short: "tabprep turns a raw CSV table into standardized train/test sets",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Setup(v, cfgFile); err != nil {
				return err
			}
			return logger.Init(logger.Options{
				Output: cmd.ErrOrStderr(),
				Level:  v.GetString("log.level"),
				JSON:   v.GetBool("log.json"),
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
		// Do not display usage on error
		SilenceUsage: true,
		// main prints the error
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "configuration file (yaml, toml or json)")

	flags.String("log-level", "info", "log level: debug, info, warn or error")
	checkNoErr(v.BindPFlag("log.level", flags.Lookup("log-level")))

	flags.String("input", config.DefaultInput, "input CSV table with a header row")
	checkNoErr(v.BindPFlag("input", flags.Lookup("input")))

	flags.String("transform", config.DefaultTransform, "path of the fitted transform file")
	checkNoErr(v.BindPFlag("transform", flags.Lookup("transform")))

	flags.StringToString("schema", nil, "column kinds, e.g. zip=categorical,age=numeric")
	checkNoErr(v.BindPFlag("schema", flags.Lookup("schema")))

	root.AddCommand(newPreprocessCmd(v), newApplyCmd(v))
	return root
}

func checkNoErr(err error) {
	if err != nil {
		panic(err)
	}
}
