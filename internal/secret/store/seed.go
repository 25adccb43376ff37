package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"darksecrets/internal/secret/models"
)

type seedSecret struct {
	content  string
	darkness int
	username string
	age      time.Duration
	comments []seedComment
}

type seedComment struct {
	content  string
	username string
	age      time.Duration
}

// Demo dataset for local development.
var seedSecrets = []seedSecret{
	{
		content:  "Sometimes I pretend to be busy at work just to avoid talking to my colleagues. I've perfected the art of looking focused while actually doing nothing.",
		darkness: 30,
		username: "silentShadow",
		age:      2 * time.Hour,
		comments: []seedComment{
			{content: "I do this too! Thought I was the only one.", username: "mysteryMouse", age: 30 * time.Minute},
		},
	},
	{
		content:  "I've been lying to my family about my career for 3 years. They think I'm a successful lawyer, but I actually work at a call center. I'm too ashamed to tell them the truth.",
		darkness: 85,
		username: "hiddenTruth",
		age:      24 * time.Hour,
		comments: []seedComment{
			{content: "That's a heavy burden to carry. Hope you find peace.", username: "gentleWhisper", age: 12 * time.Hour},
			{content: "Your worth isn't defined by your job title. Be kind to yourself.", username: "wiseSage", age: 6 * time.Hour},
		},
	},
	{
		content:  "I secretly hate my best friend's partner and have been trying to break them up for months. I know it's wrong but I can't stop myself.",
		darkness: 75,
		username: "chaosCreator",
		age:      48 * time.Hour,
	},
	{
		content:  "I've been stealing small amounts of money from my workplace for years. No one has noticed, and I've taken thousands of dollars over time.",
		darkness: 90,
		username: "shadowCollector",
		age:      72 * time.Hour,
		comments: []seedComment{
			{content: "This could end really badly for you. Be careful.", username: "realistRaven", age: 48 * time.Hour},
		},
	},
}

// Seed loads the demo dataset. Meant for development environments with an
// empty store; duplicate content across runs is harmless with random IDs.
func Seed(ctx context.Context, st Store) error {
	now := time.Now()
	for i, ss := range seedSecrets {
		originHash := fmt.Sprintf("seed-origin-%d", i)
		secret := &models.Secret{
			ID:         uuid.NewString(),
			Content:    ss.content,
			Darkness:   ss.darkness,
			Username:   ss.username,
			OriginHash: originHash,
			CreatedAt:  now.Add(-ss.age),
		}
		seed := models.Rating{
			SecretID:      secret.ID,
			RaterIdentity: originHash,
			Value:         ss.darkness,
			SubmittedAt:   secret.CreatedAt,
		}
		if err := st.CreateSecret(ctx, secret, seed); err != nil {
			return fmt.Errorf("seed secret %d: %w", i, err)
		}
		for j, sc := range ss.comments {
			comment := &models.Comment{
				ID:         uuid.NewString(),
				SecretID:   secret.ID,
				Content:    sc.content,
				Username:   sc.username,
				OriginHash: fmt.Sprintf("seed-commenter-%d-%d", i, j),
				CreatedAt:  now.Add(-sc.age),
			}
			if err := st.AddComment(ctx, comment); err != nil {
				return fmt.Errorf("seed comment %d/%d: %w", i, j, err)
			}
		}
	}
	return nil
}
