package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/esimov/wordcloud"
	"github.com/esimov/wordcloud/utils"
	"github.com/spf13/cobra"
)

const helpBanner = `
┬ ┬┌─┐┬─┐┌┬┐┌─┐┬  ┌─┐┬ ┬┌┬┐
││││ │├┬┘ ││├─ │  │ ││ │ ││
└┴┘└─┘┴└──┴┘└─┘┴─┘└─┘└─┘─┴┘

Word cloud generator.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, utils.DecorateText(err.Error(), utils.ErrorMessage))
		os.Exit(1)
	}
}

// newRootCmd creates the command generating word cloud images.
func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
		op         = &wordcloud.Ops{PipeName: pipeName}
		p          = wordcloud.DefaultProcessor()
	)

	root := &cobra.Command{
		Use:   "wordcloud",
		Short: "Generate word cloud images from text",
		Long: fmt.Sprintf(helpBanner, Version) +
			"The source is a text file, a directory of text files, a URL or `-` for stdin.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			p.Logger = logger
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, configPath, p); err != nil {
				return err
			}
			return p.Execute(op)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	pf.StringVarP(&configPath, "config", "c", "", "TOML config file, overridden by the flags set on the command line")
	bindFlags(pf, p)

	f := root.Flags()
	f.StringVarP(&op.Src, "in", "i", pipeName, "Source")
	f.StringVarP(&op.Dst, "out", "o", pipeName, "Destination")
	f.StringVar(&op.Format, "format", ".png", "Image format of the files generated from a directory")
	f.IntVar(&op.Workers, "conc", runtime.NumCPU(), "Number of files to process concurrently")

	root.AddCommand(newWordsCmd(p, &configPath))
	return root
}
