package seed

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"inkwell/internal/models"
)

// Seeder populates the database with a connected mesh of demo users,
// posts, comments and follows.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll wipes every domain table. Hard deletes, soft-deleted rows
// included.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	return nil
}

// SeedMesh creates numUsers demo accounts and numPosts posts spread
// across them, then layers comments and follow relations on top so
// every page of the app has something to show.
func (s *Seeder) SeedMesh(numUsers, numPosts int) error {
	if err := Groups(s.db); err != nil {
		return fmt.Errorf("seed groups: %w", err)
	}

	var groups []*models.Group
	if err := s.db.Find(&groups).Error; err != nil {
		return err
	}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users", len(users))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rnd.Intn(len(users))]
		var group *models.Group
		// roughly a third of posts go without a group
		if s.factory.rnd.Intn(3) != 0 {
			group = groups[s.factory.rnd.Intn(len(groups))]
		}
		post, err := s.factory.CreatePost(author, group)
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("seeded %d posts", len(posts))

	comments := 0
	for _, post := range posts {
		for i := s.factory.rnd.Intn(4); i > 0; i-- {
			author := users[s.factory.rnd.Intn(len(users))]
			if _, err := s.factory.CreateComment(post, author); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
			comments++
		}
	}
	log.Printf("seeded %d comments", comments)

	follows := 0
	for _, user := range users {
		for i := s.factory.rnd.Intn(6); i > 0; i-- {
			author := users[s.factory.rnd.Intn(len(users))]
			if user.ID == author.ID {
				continue
			}
			var exists int64
			s.db.Model(&models.Follow{}).
				Where("user_id = ? AND author_id = ?", user.ID, author.ID).
				Count(&exists)
			if exists > 0 {
				continue
			}
			if err := s.factory.CreateFollow(user, author); err != nil {
				return fmt.Errorf("seed follow: %w", err)
			}
			follows++
		}
	}
	log.Printf("seeded %d follows", follows)

	return nil
}
