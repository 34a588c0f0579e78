package main

import (
	"io"
	"os"

	"github.com/esimov/wordcloud"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// newWordsCmd creates the command printing the normalized word list of a text.
func newWordsCmd(p *wordcloud.Processor, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "words [file]",
		Short: "Print the words of a text with their weights",
		Long:  "Print the words of a text, heaviest first, as tab separated word and weight pairs. The text is read from stdin when no file or `-` is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, *configPath, p); err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != pipeName {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "unable to open the source file")
				}
				defer f.Close()
				r = f
			}
			text, err := io.ReadAll(r)
			if err != nil {
				return errors.Wrap(err, "could not read the source text")
			}

			words, err := p.Frequencies(string(text))
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("words counted", "count", len(words))
			return wordcloud.WriteFrequencies(cmd.OutOrStdout(), words)
		},
	}
}
