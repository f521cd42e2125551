package main

import (
	"github.com/spf13/cobra"

	"github.com/liao/chat-miner/internal/export"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a chat export and write records as csv, json or jsonl",
		Example: `  chatminer parse -p whatsapp -i chat.txt -o chat.csv
  chatminer parse -i result.json -p telegram --chat-name Family -o family.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.parseInput(cmd.Context(), &in)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return export.WriteJSONLines(cmd.OutOrStdout(), res.Records)
			}
			return export.WriteFile(output, res.Records)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.csv, .json, .jsonl); stdout as jsonl when empty")
	return cmd
}
