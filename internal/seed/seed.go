// Package seed loads the demo data set.
package seed

import (
	"context"
	"fmt"

	"github.com/statelab/statelab/internal/db"
	"github.com/statelab/statelab/internal/models"
)

var seedUsers = []models.NewUser{
	{
		Name:     "John Doe",
		Email:    "john@example.com",
		Username: "johndoe",
		Phone:    "+1234567890",
		Website:  "https://johndoe.dev",
	},
	{
		Name:     "Jane Smith",
		Email:    "jane@example.com",
		Username: "janesmith",
		Phone:    "+1234567891",
		Website:  "https://janesmith.dev",
	},
	{
		Name:     "Mike Johnson",
		Email:    "mike@example.com",
		Username: "mikejohnson",
		Phone:    "+1234567892",
		Website:  "https://mikejohnson.dev",
	},
}

var seedPosts = []models.NewPost{
	{
		Title:  "Getting Started with Query Caching",
		Body:   "A cached-fetch layer keeps server state out of your UI components. It gives you automatic caching, background refetching, and a single source of truth for loading and error states. In this post we build a robust data fetching layer step by step and look at the trade-offs along the way.",
		Author: "John Doe",
	},
	{
		Title:  "Advanced Component Patterns",
		Body:   "Compound components, render delegation, and small reusable state hooks make interfaces flexible without making them fragile. We dig into each pattern and walk through real-world examples of applying them effectively.",
		Author: "Jane Smith",
	},
	{
		Title:  "What's New in the Framework",
		Body:   "The latest release brings better performance, a smoother developer experience, and improved routing. Let's explore the key features and how they change day-to-day development workflow.",
		Author: "Mike Johnson",
	},
	{
		Title:  "Static Typing Best Practices",
		Body:   "Static types have become the default for building robust applications. This guide covers common patterns, pitfalls, and how to keep a growing codebase maintainable and type-safe.",
		Author: "John Doe",
	},
	{
		Title:  "Building Accessible Forms",
		Body:   "Accessibility is not optional. Learn how to build accessible form components with semantic markup, correct labeling, and the testing tools that catch regressions before your users do.",
		Author: "Jane Smith",
	},
}

// Run inserts the demo users and posts. Each post references one of the
// seeded users round-robin, matching its author name to that user.
func Run(ctx context.Context, store *db.Store) error {
	users := make([]*models.User, 0, len(seedUsers))
	for _, in := range seedUsers {
		user, err := store.CreateUser(ctx, in)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", in.Email, err)
		}
		users = append(users, user)
	}

	for i, in := range seedPosts {
		owner := users[i%len(users)]
		in.AuthorID = &owner.ID
		in.Author = owner.Name
		if _, err := store.CreatePost(ctx, in); err != nil {
			return fmt.Errorf("seed post %q: %w", in.Title, err)
		}
	}
	return nil
}
