package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/liao/chat-miner/internal/parser"
)

func newEncryptCmd() *cobra.Command {
	var input, output, key string

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a chat export into the .enc format accepted by parse and index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = os.Getenv("DECRYPT_KEY")
			}
			if key == "" {
				return fmt.Errorf("--key required (or DECRYPT_KEY env)")
			}
			if output == "" {
				output = input + ".enc"
			}

			plaintext, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			data, err := parser.Encrypt(plaintext, key)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("write file: %w", err)
			}
			slog.Info("encrypted", "file", output, "bytes", len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "chat export to encrypt")
	cmd.Flags().StringVarP(&output, "output", "o", "", "encrypted file (default: input + .enc)")
	cmd.Flags().StringVar(&key, "key", "", "password (or DECRYPT_KEY env)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
