// Package ingest imports record stores into the payment data tree.
package ingest

import (
	"fjacquet/payment-reminder/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import <file> <city>",
	Short: "Copy a record store into a city folder",
	Long: `import copies a record store into the named city's folder inside the
data directory. The copy is timestamp-suffixed so repeated imports of the
same file never overwrite each other.`,
	Args: cobra.ExactArgs(2),
	Run:  ingestFunc,
}

func ingestFunc(cmd *cobra.Command, args []string) {
	c, err := root.BuildContainer()
	if err != nil {
		root.Log.Fatalf("Error initializing application: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	target, err := c.GetIntake().ImportFile(args[0], args[1])
	if err != nil {
		root.Log.Fatalf("Error importing file: %v", err)
	}
	root.Log.Infof("Imported %s as %s", args[0], target)
}
