// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ripple/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumStories  int
	ShouldClean bool
}

// Seed populates the database with fake users, a follow graph, posts with
// engagement, and a handful of live stories.
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clean database: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("Created %d users", len(users))

	follows, err := createFollowGraph(db, users)
	if err != nil {
		return fmt.Errorf("failed to create follow graph: %w", err)
	}
	log.Printf("Created %d follow edges", follows)

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))

	if err := createEngagement(db, users, posts); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	stories, err := createStories(db, users, opts.NumStories)
	if err != nil {
		return fmt.Errorf("failed to create stories: %w", err)
	}
	log.Printf("Created %d stories", stories)

	return nil
}

func clearData(db *gorm.DB) error {
	// Children before parents to satisfy foreign keys.
	tables := []string{"story_views", "stories", "notifications", "likes", "comments", "posts", "follows", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	// One shared hash: hashing per user makes large seeds crawl.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		user := models.User{
			Username:   fmt.Sprintf("%s%s%d", first, last, gofakeit.Number(1, 999)),
			Email:      gofakeit.Email(),
			Password:   string(hash),
			FullName:   first + " " + last,
			Bio:        gofakeit.Sentence(8),
			Link:       gofakeit.URL(),
			ProfileImg: fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
			CoverImg:   fmt.Sprintf("https://picsum.photos/seed/%s/900/300", gofakeit.UUID()),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createFollowGraph(db *gorm.DB, users []models.User) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}
	created := 0
	for i := range users {
		// Each user follows a random handful of others.
		n := rand.Intn(len(users)/2 + 1)
		for j := 0; j < n; j++ {
			target := users[rand.Intn(len(users))]
			if target.ID == users[i].ID {
				continue
			}
			edge := models.Follow{FollowerID: users[i].ID, FolloweeID: target.ID}
			result := db.Where(models.Follow{FollowerID: edge.FollowerID, FolloweeID: edge.FolloweeID}).
				FirstOrCreate(&edge)
			if result.Error != nil {
				return created, result.Error
			}
			if result.RowsAffected > 0 {
				created++
				n := models.Notification{FromID: users[i].ID, ToID: target.ID, Type: models.NotificationTypeFollow}
				if err := db.Create(&n).Error; err != nil {
					return created, err
				}
			}
		}
	}
	return created, nil
}

func createPosts(db *gorm.DB, users []models.User, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		post := models.Post{
			UserID:    author.ID,
			Text:      gofakeit.Paragraph(1, 2, 8, " "),
			CreatedAt: randomPastTime(14 * 24 * time.Hour),
		}
		if rand.Intn(3) == 0 {
			post.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createEngagement(db *gorm.DB, users []models.User, posts []models.Post) error {
	for _, post := range posts {
		for _, user := range users {
			if rand.Intn(4) != 0 {
				continue
			}
			like := models.Like{UserID: user.ID, PostID: post.ID}
			result := db.Where(models.Like{UserID: user.ID, PostID: post.ID}).FirstOrCreate(&like)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 && user.ID != post.UserID {
				n := models.Notification{FromID: user.ID, ToID: post.UserID, Type: models.NotificationTypeLike}
				if err := db.Create(&n).Error; err != nil {
					return err
				}
			}
		}

		commentCount := rand.Intn(4)
		for i := 0; i < commentCount; i++ {
			commenter := users[rand.Intn(len(users))]
			comment := models.Comment{
				PostID: post.ID,
				UserID: commenter.ID,
				Text:   gofakeit.Sentence(10),
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func createStories(db *gorm.DB, users []models.User, count int) (int, error) {
	created := 0
	for i := 0; i < count; i++ {
		owner := users[rand.Intn(len(users))]
		// Spread creation across the last day so some stories are close to expiry.
		createdAt := randomPastTime(models.StoryTTL)
		kind := models.StoryKindImage
		if rand.Intn(5) == 0 {
			kind = models.StoryKindVideo
		}
		story := models.Story{
			UserID:    owner.ID,
			MediaURL:  fmt.Sprintf("https://picsum.photos/seed/%s/600/1000", gofakeit.UUID()),
			Kind:      kind,
			Caption:   gofakeit.Sentence(5),
			CreatedAt: createdAt,
			ExpiresAt: createdAt.Add(models.StoryTTL),
		}
		if err := db.Create(&story).Error; err != nil {
			return created, err
		}
		created++

		for _, viewer := range users {
			if viewer.ID == owner.ID || rand.Intn(3) != 0 {
				continue
			}
			view := models.StoryView{StoryID: story.ID, ViewerID: viewer.ID}
			if err := db.Where(models.StoryView{StoryID: story.ID, ViewerID: viewer.ID}).
				FirstOrCreate(&view).Error; err != nil {
				return created, err
			}
		}
	}
	return created, nil
}

func randomPastTime(window time.Duration) time.Time {
	offset := time.Duration(rand.Int63n(int64(window)))
	return time.Now().Add(-offset)
}
