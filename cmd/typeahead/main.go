// Command typeahead is an interactive search/select picker for JSON records.
// Options come from a file, stdin or a remote endpoint; the chosen records are
// printed to stdout as JSON.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// errCancelled means the user left the picker without confirming
var errCancelled = errors.New("cancelled")

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errCancelled) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var flags runFlags

var rootCmd = &cobra.Command{
	Use:   "typeahead [file]",
	Short: "Interactive type-ahead picker for JSON records",
	Long: `typeahead filters a list of JSON records as you type, optionally merges
results from a remote search endpoint, and prints the records you pick.

Examples:
  # Pick one user by name
  typeahead users.json --label name --value id

  # Pick up to three tags from stdin
  jq '.tags' post.json | typeahead --multi --max 3

  # Search a remote endpoint (GET <url>?q=<query>)
  typeahead --remote https://api.example.com/users --results-path data.items --label login`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPicker,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flags.file, "options", "f", "", "JSON array of option records (- for stdin)")
	f.StringVar(&flags.label, "label", "", "gjson path to the option label")
	f.StringVar(&flags.value, "value", "", "gjson path to the option identity (defaults to the label)")
	f.StringVar(&flags.description, "desc", "", "gjson path to the option description")
	f.StringVar(&flags.disabled, "disabled", "", "gjson path to a boolean that disables the option")
	f.BoolVarP(&flags.multi, "multi", "m", false, "select several options")
	f.IntVar(&flags.max, "max", 0, "maximum number of selections (0 is unlimited)")
	f.StringVar(&flags.remote, "remote", "", "remote search endpoint")
	f.StringVar(&flags.resultsPath, "results-path", "", "gjson path to the result array in remote responses")
	f.DurationVar(&flags.debounce, "debounce", 0, "delay before a remote search starts")
	f.IntVar(&flags.minLength, "min-length", 0, "shortest query sent to the remote endpoint")
	f.BoolVar(&flags.exact, "exact", false, "substring matching instead of fuzzy matching")
	f.BoolVarP(&flags.watch, "watch", "w", false, "reload the options file when it changes")
	f.StringVar(&flags.title, "title", "", "title shown above the picker")
	f.IntVar(&flags.height, "height", 0, "visible result rows")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default is the user config dir)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&flags.logFile, "log-file", "", "log file (default is typeahead.log in the temp dir)")

	rootCmd.AddCommand(configCmd)
}
