// Command tabprep prepares a raw CSV table for model training.
//
//	tabprep preprocess --input data_raw.csv --target encoded_label
//	tabprep apply --transform preprocessing/pipeline.bin --input new.csv --output new_X.csv
//
// Every flag can also be set in a config file (--config) or through a
// TABPREP_* environment variable, e.g. TABPREP_OUTPUT_DIR.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
