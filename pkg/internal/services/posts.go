package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/database"
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/models"
	"github.com/pemistahl/lingua-go"
)

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

func getLanguageDetector() lingua.LanguageDetector {
	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Spanish, lingua.French, lingua.German, lingua.Portuguese).
			Build()
	})
	return languageDetector
}

// DetectLanguage returns the lowercase ISO 639-1 code of text, empty when unsure
func DetectLanguage(text string) string {
	if language, ok := getLanguageDetector().DetectLanguageOf(text); ok {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return ""
}

func (c *Core) detectPostLanguage(ctx context.Context, item *models.Post, payload Payload) error {
	if !c.options.DetectLanguage {
		return nil
	}
	if _, supplied := payload["content"]; !supplied && len(item.Language) > 0 {
		return nil
	}
	item.Language = DetectLanguage(item.Content)
	return nil
}

// sortPostsByRecency orders newest first, ties by the higher key
func sortPostsByRecency(items []models.Post) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// GlobalFeed lists every post, newest first
func (c *Core) GlobalFeed(ctx context.Context) ([]models.Post, error) {
	items, err := c.Posts.List(ctx)
	if err != nil {
		return nil, err
	}
	sortPostsByRecency(items)
	return items, nil
}

// FollowedFeed lists the posts written by the users that user follows, newest first
func (c *Core) FollowedFeed(ctx context.Context, user int64) ([]models.Post, error) {
	followed, err := c.followedSet(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(followed) == 0 {
		return []models.Post{}, nil
	}
	items, err := c.Posts.Find(ctx, database.Where(database.Condition{"user_id": followed}))
	if err != nil {
		return nil, err
	}
	sortPostsByRecency(items)
	return items, nil
}

func (c *Core) PostsBy(ctx context.Context, user int64) ([]models.Post, error) {
	items, err := c.Posts.Find(ctx, database.Where(database.Condition{"user_id": user}))
	if err != nil {
		return nil, err
	}
	sortPostsByRecency(items)
	return items, nil
}
