package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liao/chat-miner/internal/parser"
)

// inputFlags 解析类命令共用的输入参数
type inputFlags struct {
	input      string
	platform   string
	decryptKey string
	chatName   string
	workers    int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "chat export file (.txt, .json, .html, or encrypted .enc)")
	cmd.Flags().StringVarP(&f.platform, "parser", "p", "auto", "platform: auto, "+platformList())
	cmd.Flags().StringVar(&f.decryptKey, "decrypt-key", "", "password for .enc files (or DECRYPT_KEY env)")
	cmd.Flags().StringVar(&f.chatName, "chat-name", "", "chat to select from a Telegram batch export")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel message parsers (default from config)")
	_ = cmd.MarkFlagRequired("input")
}

func platformList() string {
	names := make([]string, 0, len(parser.Platforms()))
	for _, p := range parser.Platforms() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// parseInput 读取（必要时解密）输入文件并解析
func (a *app) parseInput(ctx context.Context, f *inputFlags) (*parser.Result, error) {
	opts, err := a.cfg.Parser.Options()
	if err != nil {
		return nil, err
	}
	if f.workers > 0 {
		opts.Workers = f.workers
	}
	if f.chatName != "" {
		opts.ChatName = f.chatName
	}

	data, name, err := readInput(f)
	if err != nil {
		return nil, err
	}

	platform := parser.Platform(f.platform)
	if platform == parser.PlatformAuto {
		platform, err = parser.Detect(name, head(data, 64*1024))
		if err != nil {
			return nil, err
		}
		slog.Info("detected platform", "platform", platform)
	}

	p, err := parser.New(platform, opts)
	if err != nil {
		return nil, err
	}

	slog.Info("parsing chat history", "file", f.input, "platform", platform)
	res, err := parser.ParseBytes(ctx, p, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.input, err)
	}
	parser.LogDiagnostics(ctx, slog.Default(), res.Diagnostics)
	slog.Info("parsed", "messages", res.Records.Len(), "diagnostics", len(res.Diagnostics))
	return res, nil
}

// readInput 返回明文内容以及用于识别格式的文件名
func readInput(f *inputFlags) ([]byte, string, error) {
	if strings.ToLower(filepath.Ext(f.input)) != ".enc" {
		data, err := os.ReadFile(f.input)
		if err != nil {
			return nil, "", fmt.Errorf("read file: %w", err)
		}
		return data, f.input, nil
	}

	key := f.decryptKey
	if key == "" {
		key = os.Getenv("DECRYPT_KEY")
	}
	if key == "" {
		return nil, "", fmt.Errorf("--decrypt-key required for .enc files")
	}

	plaintext, err := parser.DecryptFile(f.input, key)
	if err != nil {
		return nil, "", err
	}
	slog.Info("decrypted successfully", "bytes", len(plaintext))
	return plaintext, strings.TrimSuffix(f.input, filepath.Ext(f.input)), nil
}

func head(data []byte, n int) []byte {
	if len(data) > n {
		return data[:n]
	}
	return data
}
