// Package seed populates the database with demo content for development.
package seed

import (
	"fmt"
	"log"
	"strings"
	"time"

	"inkwell/internal/derive"
	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	demoUsers           = 12
	demoPostsPerUser    = 3
	demoCommentsPerPost = 2
	demoPassword        = "inkwell-demo1"
)

// Demo fills an empty database with fake users, posts, comments, likes, and
// follows. It is a no-op when users already exist so repeated startups stay
// idempotent.
func Demo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	// User ID 1 may be the bootstrapped dev root admin.
	if count > 1 {
		log.Println("seed: users already present, skipping demo data")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	faker := gofakeit.New(0)

	users := make([]models.User, 0, demoUsers)
	for i := 0; i < demoUsers; i++ {
		username := fmt.Sprintf("%s_%d", strings.ToLower(faker.Username()), i)
		if len(username) > 30 {
			username = username[:30]
		}
		users = append(users, models.User{
			Username:  username,
			Email:     fmt.Sprintf("%d_%s", i, faker.Email()),
			Password:  string(hashed),
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Bio:       faker.Sentence(12),
			Role:      models.RoleUser,
			IsActive:  true,
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	var posts []models.Post
	for _, u := range users {
		for i := 0; i < demoPostsPerUser; i++ {
			title := faker.Sentence(6)
			content := faker.Paragraph(4, 6, 30, " ")
			category := models.Categories[faker.Number(0, len(models.Categories)-1)]
			published := faker.Number(0, 9) > 1 // most demo posts are published

			post := models.Post{
				Title:          title,
				Content:        content,
				Excerpt:        derive.Excerpt(content),
				ExcerptDerived: true,
				Slug:           derive.Slug(title),
				Category:       category,
				Tags:           []string{faker.Word(), faker.Word()},
				ReadTime:       derive.ReadTime(content),
				IsPublished:    published,
				UserID:         u.ID,
			}
			if published {
				at := time.Now().AddDate(0, 0, -faker.Number(0, 300))
				post.PublishedAt = &at
			}
			posts = append(posts, post)
		}
	}
	if err := db.Create(&posts).Error; err != nil {
		return err
	}

	var comments []models.Comment
	for _, p := range posts {
		if !p.IsPublished {
			continue
		}
		for i := 0; i < demoCommentsPerPost; i++ {
			commenter := users[faker.Number(0, len(users)-1)]
			comments = append(comments, models.Comment{
				Content:  faker.Sentence(10),
				UserID:   commenter.ID,
				PostID:   p.ID,
				IsActive: true,
			})
		}
	}
	if err := db.Create(&comments).Error; err != nil {
		return err
	}

	var likes []models.PostLike
	for _, p := range posts {
		if !p.IsPublished {
			continue
		}
		for i := 0; i < faker.Number(0, 5); i++ {
			likes = append(likes, models.PostLike{
				UserID: users[faker.Number(0, len(users)-1)].ID,
				PostID: p.ID,
			})
		}
	}
	if len(likes) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&likes).Error; err != nil {
			return err
		}
	}

	var follows []models.Follow
	for _, u := range users {
		for i := 0; i < faker.Number(1, 4); i++ {
			other := users[faker.Number(0, len(users)-1)]
			if other.ID == u.ID {
				continue
			}
			follows = append(follows, models.Follow{
				FollowerID: u.ID,
				FolloweeID: other.ID,
			})
		}
	}
	if len(follows) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follows).Error; err != nil {
			return err
		}
	}

	log.Printf("seed: created %d users, %d posts, %d comments", len(users), len(posts), len(comments))
	return nil
}
