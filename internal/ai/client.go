package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// Embedder 生成文本嵌入向量
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// embedFunc 单次嵌入请求，不含限流与重试
type embedFunc func(ctx context.Context, text string) ([]float32, error)

var errEmptyEmbedding = errors.New("empty embedding response")

// Client Gemini 嵌入客户端，按每分钟请求数限流，失败时退避重试
type Client struct {
	embed   embedFunc
	limiter *rate.Limiter
	retries int
	backoff time.Duration
}

func NewClient(ctx context.Context, apiKey string, embedModel string, rpmLimit int) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newClient(geminiEmbed(gc, embedModel), rpmLimit), nil
}

func newClient(embed embedFunc, rpmLimit int) *Client {
	// rpmLimit <= 0 时不限流
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rpmLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpmLimit)), rpmLimit)
	}
	return &Client{
		embed:   embed,
		limiter: limiter,
		retries: 3,
		backoff: time.Second,
	}
}

func geminiEmbed(gc *genai.Client, model string) embedFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		resp, err := gc.Models.EmbedContent(ctx, model,
			[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
		if err != nil {
			return nil, err
		}
		if len(resp.Embeddings) == 0 {
			return nil, errEmptyEmbedding
		}
		return resp.Embeddings[0].Values, nil
	}
}

// Embed 生成文本嵌入向量，第 n 次失败后等待 backoff*2^n
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limit: %w", err)
		}

		vec, err := c.embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
		if errors.Is(err, errEmptyEmbedding) {
			break
		}

		slog.Warn("embed failed, retrying", "attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.backoff << attempt):
		}
	}
	return nil, fmt.Errorf("embed failed after %d attempts: %w", c.retries, lastErr)
}

// EmbedFunc 返回一个可用于 chromem-go 的 embedding 函数
func (c *Client) EmbedFunc() func(ctx context.Context, text string) ([]float32, error) {
	return c.Embed
}
