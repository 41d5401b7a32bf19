package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/ourclass/readlog/internal/llm"
)

// CoverImage draws a text-free cover for a finished book. It returns
// llm.ErrNoImageProvider when the coach has no image backend.
func (c *Coach) CoverImage(ctx context.Context, title, author string) (*llm.Image, error) {
	if c.images == nil {
		return nil, llm.ErrNoImageProvider
	}
	title, author = strings.TrimSpace(title), strings.TrimSpace(author)
	if title == "" {
		return nil, fmt.Errorf("cover: title is required")
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, llm.PurposeCover), c.timeout)
	defer cancel()

	img, err := c.images.GenerateImage(ctx, llm.ImageRequest{
		Prompt:      fmt.Sprintf(coverPrompt, title, author),
		AspectRatio: coverAspectRatio,
		MIMEType:    "image/jpeg",
	})
	if err != nil {
		c.log.Error("cover generation failed", "title", title, "error", err)
		return nil, fmt.Errorf("cover for %q: %w", title, err)
	}
	c.log.Info("cover generated", "title", title, "bytes", len(img.Data))
	return img, nil
}
