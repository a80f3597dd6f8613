package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nightlyone/lockfile"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tabprep/pkg/config"
	"tabprep/pkg/data"
	"tabprep/pkg/preprocess"
)

func newPreprocessCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Impute, standardize, encode and split a table",
		Long: `Reads the input table, label-encodes the target column, splits the rows
into train and test partitions, fits mean imputation and standardization on the
numeric features of the training rows and writes X_train.csv, X_test.csv,
y_train.csv and y_test.csv into the output directory. The fitted transform, the
feature header and the label classes are saved for later use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return runPreprocess(afero.NewOsFs(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("target", config.DefaultTarget, "name of the target column")
	checkNoErr(v.BindPFlag("target", flags.Lookup("target")))

	flags.String("header", config.DefaultHeader, "path of the feature header file")
	checkNoErr(v.BindPFlag("header", flags.Lookup("header")))

	flags.String("output-dir", config.DefaultOutputDir, "directory receiving the train/test files")
	checkNoErr(v.BindPFlag("output_dir", flags.Lookup("output-dir")))

	flags.String("labels", "", "path of the label classes file (default <output-dir>/label_classes.csv)")
	checkNoErr(v.BindPFlag("labels", flags.Lookup("labels")))

	flags.Float64("test-ratio", config.DefaultTestRatio, "share of rows in the test partition")
	checkNoErr(v.BindPFlag("test_ratio", flags.Lookup("test-ratio")))

	flags.Int64("seed", config.DefaultSeed, "seed of the row permutation")
	checkNoErr(v.BindPFlag("seed", flags.Lookup("seed")))

	flags.Bool("plot", false, "also write a box plot of the standardized training features")
	checkNoErr(v.BindPFlag("plot", flags.Lookup("plot")))

	return cmd
}

func runPreprocess(fs afero.Fs, cfg *config.Config) error {
	schema, err := data.ParseSchema(cfg.Schema)
	if err != nil {
		return err
	}
	lock, err := lockOutput(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer lock.Unlock() //nolint:errcheck

	tbl, err := data.LoadCSV(fs, cfg.Input, schema)
	if err != nil {
		return err
	}
	seed := cfg.Seed
	_, err = preprocess.New(fs).Run(tbl, preprocess.Options{
		Target:        cfg.Target,
		TransformPath: cfg.Transform,
		HeaderPath:    cfg.Header,
		OutputDir:     cfg.OutputDir,
		LabelsPath:    cfg.Labels,
		TestRatio:     cfg.TestRatio,
		Seed:          &seed,
		Plot:          cfg.Plot,
	})
	return err
}

// lockOutput takes an advisory lock next to dir so two runs cannot write the
// same output layout at once.
func lockOutput(dir string) (lockfile.Lockfile, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	parent := filepath.Dir(abs)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", err
	}
	lock, err := lockfile.New(filepath.Join(parent, "."+filepath.Base(abs)+".lock"))
	if err != nil {
		return "", err
	}
	if err := lock.TryLock(); err != nil {
		return "", fmt.Errorf("output directory %s is in use: %w", dir, err)
	}
	return lock, nil
}
