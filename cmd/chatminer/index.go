package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liao/chat-miner/internal/ai"
	"github.com/liao/chat-miner/internal/index"
)

func newIndexCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		source string
		keep   bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Split a chat export into conversations and store their embeddings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := a.parseInput(ctx, &in)
			if err != nil {
				return err
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			conversations := res.Records.Conversations(a.cfg.Index.Gap(), a.cfg.Index.MinMessages)
			slog.Info("vectorizing conversations...", "conversations", len(conversations))

			if source == "" {
				source = sourceName(in.input)
			}
			add := store.ReplaceConversations
			if keep {
				add = store.AddConversations
			}
			n, err := add(ctx, source, conversations)
			if err != nil {
				return err
			}
			slog.Info("vectorization complete", "added", n, "total_vectors", store.Count())
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&source, "source", "", "source name stored with the documents (default: input file name)")
	cmd.Flags().BoolVar(&keep, "keep", false, "keep documents previously indexed for the same source")
	return cmd
}

// sourceName 去掉目录与扩展名（加密文件去掉两层）
func sourceName(path string) string {
	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(name), ".enc") {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		topK     int
		source   string
		contains string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find indexed conversations similar to the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			k := a.cfg.Index.TopK
			if topK > 0 {
				k = topK
			}
			results, err := store.Query(ctx, strings.Join(args, " "), index.QueryOptions{
				TopK:          k,
				MinSimilarity: a.cfg.Index.MinSimilarity,
				Source:        source,
				Contains:      contains,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "--- %s (%.3f) %s ~ %s\n%s\n", r.ID, r.Similarity, r.Metadata["start"], r.Metadata["end"], r.Content)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of results (default from config)")
	cmd.Flags().StringVar(&source, "source", "", "only search documents of this source")
	cmd.Flags().StringVar(&contains, "contains", "", "only search documents containing this text")
	return cmd
}

func (a *app) openStore(ctx context.Context) (*index.Store, error) {
	g := a.cfg.Gemini
	if g.APIKey == "" {
		return nil, fmt.Errorf("gemini.api_key is required (set in config or GEMINI_API_KEY env)")
	}

	client, err := ai.NewClient(ctx, g.APIKey, g.EmbeddingModel, g.RPMLimit)
	if err != nil {
		return nil, err
	}
	return index.NewStore(a.cfg.Index.VectorsDir, a.cfg.Index.Collection, client.EmbedFunc())
}
