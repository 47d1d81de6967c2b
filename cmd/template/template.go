// Package template creates an empty record store with the expected columns.
package template

import (
	"path/filepath"

	"fjacquet/payment-reminder/cmd/root"
	"fjacquet/payment-reminder/internal/store"

	"github.com/spf13/cobra"
)

var (
	city   string
	output string
)

// Cmd represents the template command
var Cmd = &cobra.Command{
	Use:   "template",
	Short: "Create a template record store",
	Long: `template writes a new record store containing the required columns
and one sample row. With --city, the file is created inside that city's
folder in the data directory; with --output, at the given path.`,
	Run: templateFunc,
}

func init() {
	Cmd.Flags().StringVarP(&city, "city", "c", "", "City folder to create the store in")
	Cmd.Flags().StringVarP(&output, "output", "o", "payment_template.csv", "File name (or full path without --city)")
}

func templateFunc(cmd *cobra.Command, args []string) {
	c, err := root.BuildContainer()
	if err != nil {
		root.Log.Fatalf("Error initializing application: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	cfg := c.GetConfig()
	path := output
	if city != "" {
		path = filepath.Join(cfg.Data.Directory, city, filepath.Base(output))
	}

	delimiter := []rune(cfg.Data.Delimiter)[0]
	if err := store.CreateTemplate(path, delimiter); err != nil {
		root.Log.Fatalf("Error creating template: %v", err)
	}
	root.Log.Infof("Created template store at %s", path)
}
