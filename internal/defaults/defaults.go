// Package defaults provides the dataset shown to anonymous visitors and
// copied into the collection of a user on first sign-in.
package defaults

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/mindmap"
	"github.com/dtroode/aitoolmap-server/internal/model"
)

var builtin = []model.Category{
	{
		Name: "文章作成",
		Tools: []model.Tool{
			{ID: "gpt", Name: "ChatGPT", URL: "https://chat.openai.com/", Description: "OpenAIが開発した対話型AI"},
			{ID: "gemini", Name: "Gemini", URL: "https://gemini.google.com/", Description: "Googleが開発したマルチモーダルAI"},
			{ID: "claude", Name: "Claude", URL: "https://claude.ai/", Description: "Anthropic社が開発したAIアシスタント"},
		},
	},
	{
		Name: "画像作成",
		Tools: []model.Tool{
			{ID: "midjourney", Name: "Midjourney", URL: "https://www.midjourney.com/", Description: "高品質な画像を生成するAIサービス"},
			{ID: "stablediffusion", Name: "Stable Diffusion", URL: "https://stablediffusionweb.com/", Description: "オープンソースの画像生成AIモデル"},
			{ID: "dalle3", Name: "DALL-E 3", URL: "https://openai.com/dall-e-3", Description: "ChatGPTに統合された画像生成AI"},
		},
	},
	{
		Name: "動画作成",
		Tools: []model.Tool{
			{ID: "sora", Name: "Sora", URL: "https://openai.com/sora", Description: "テキストから高品質な動画を生成するAI"},
			{ID: "runway", Name: "Runway", URL: "https://runwayml.com/", Description: "多機能なオンライン動画編集・生成プラットフォーム"},
			{ID: "pika", Name: "Pika", URL: "https://pika.art/", Description: "アイデアを動画に変換するAIツール"},
		},
	},
	{
		Name: "コーディング",
		Tools: []model.Tool{
			{ID: "copilot", Name: "GitHub Copilot", URL: "https://github.com/features/copilot", Description: "AIペアプログラマー"},
			{ID: "cursor", Name: "Cursor", URL: "https://cursor.sh/", Description: "AIネイティブなコードエディタ"},
			{ID: "codewhisperer", Name: "CodeWhisperer", URL: "https://aws.amazon.com/jp/codewhisperer/", Description: "AmazonのAIコーディング支援ツール"},
		},
	},
}

// Dataset is an immutable default category list.
type Dataset struct {
	categories []model.Category
}

// Builtin returns the dataset compiled into the binary.
func Builtin() *Dataset {
	return &Dataset{categories: builtin}
}

// Categories returns a copy of the dataset.
func (d *Dataset) Categories() []model.Category {
	return mindmap.Clone(d.categories)
}

// Documents flattens the dataset into collection documents tagged with their category.
func (d *Dataset) Documents() []model.ToolDocument {
	var docs []model.ToolDocument
	for _, c := range d.categories {
		for _, t := range c.Tools {
			docs = append(docs, model.ToolDocument{
				Slug:        t.ID,
				Name:        t.Name,
				URL:         t.URL,
				Description: t.Description,
				Category:    c.Name,
			})
		}
	}
	return docs
}

// Parse decodes a dataset from its JSON form
// (`[{"category": "...", "tools": [{"id", "name", "url", "description"}]}]`).
func Parse(r io.Reader) (*Dataset, error) {
	var categories []model.Category
	if err := json.NewDecoder(r).Decode(&categories); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	if err := validate(categories); err != nil {
		return nil, err
	}

	for i := range categories {
		for j := range categories[i].Tools {
			t := &categories[i].Tools[j]
			t.RemoteID = ""
			if t.ID == "" {
				t.ID = mindmap.Slug(t.Name)
			}
		}
	}

	return &Dataset{categories: categories}, nil
}

func validate(categories []model.Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("dataset is empty")
	}
	if len(categories) > model.MaxCategories {
		return fmt.Errorf("dataset has %d categories, at most %d allowed", len(categories), model.MaxCategories)
	}

	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			return fmt.Errorf("dataset has a category without a name")
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("dataset has duplicate category %q", c.Name)
		}
		seen[name] = struct{}{}
		if len(c.Tools) == 0 {
			return fmt.Errorf("dataset category %q has no tools", c.Name)
		}
		for _, t := range c.Tools {
			if t.Name == "" || t.URL == "" {
				return fmt.Errorf("dataset category %q has a tool without name or url", c.Name)
			}
		}
	}
	return nil
}

// Load returns the dataset stored under key, or the built-in one when the
// storage is nil or the object does not exist.
func Load(ctx context.Context, storage model.Storage, key string, logger *logger.Logger) (*Dataset, error) {
	if storage == nil || key == "" {
		return Builtin(), nil
	}

	exists, err := storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check dataset object: %w", err)
	}
	if !exists {
		logger.Info("Defaults: dataset object not found, using built-in dataset", "key", key)
		return Builtin(), nil
	}

	rc, err := storage.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download dataset: %w", err)
	}
	defer rc.Close()

	ds, err := Parse(rc)
	if err != nil {
		return nil, err
	}

	logger.Info("Defaults: dataset loaded from storage", "key", key, "categories", len(ds.categories))
	return ds, nil
}
