package main

import (
	"encoding/csv"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tabprep/pkg/config"
	"tabprep/pkg/data"
	"tabprep/pkg/logger"
	"tabprep/pkg/preprocess"
)

func newApplyCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a saved transform to a new table",
		Long: `Loads the transform written by "preprocess" and applies it, unchanged,
to the numeric feature columns of the input table. Other columns, including
the target when present, are ignored. The result is written with positional
column names, one row per input row.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return runApply(afero.NewOsFs(), cfg, v.GetString("apply.output"), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "output CSV file (default stdout)")
	checkNoErr(v.BindPFlag("apply.output", flags.Lookup("output")))
	return cmd
}

func runApply(fs afero.Fs, cfg *config.Config, output string, stdout io.Writer) (err error) {
	schema, err := data.ParseSchema(cfg.Schema)
	if err != nil {
		return err
	}
	ct, err := preprocess.LoadTransform(fs, cfg.Transform)
	if err != nil {
		return err
	}
	tbl, err := data.LoadCSV(fs, cfg.Input, schema)
	if err != nil {
		return err
	}
	X, err := ct.Transform(tbl)
	if err != nil {
		return err
	}

	var out io.Writer = stdout
	if output != "" {
		f, ferr := fs.Create(output)
		if ferr != nil {
			return ferr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		out = f
	}
	w := csv.NewWriter(out)
	if err := preprocess.WriteMatrix(w, X); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	logger.WithNamespace("apply").WithField("rows", tbl.Len()).Infof("applied transform %s", cfg.Transform)
	return nil
}
