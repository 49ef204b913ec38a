// Package seed provides helpers to create demo data for development
// and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumUsers int
	NumPosts int
	// ModeratorRatio is the fraction of users flagged as moderators.
	ModeratorRatio float64
}

// Seeder populates the database with demo users, posts and engagement.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Child tables go first so foreign
// keys never dangle mid-wipe.
func (s *Seeder) ClearAll() error {
	tables := []string{"moderation_decisions", "views", "comments", "followers", "posts", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Database cleared")
	return nil
}

// BuildUser constructs an unsaved user with fake profile data.
func (s *Seeder) BuildUser(moderator bool) *models.User {
	name := gofakeit.Name()
	return &models.User{
		Email:       fmt.Sprintf("%s-%s", gofakeit.LetterN(6), gofakeit.Email()),
		DisplayName: name,
		Avatar:      fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
		IsModerator: moderator,
	}
}

// BuildPost constructs an unsaved post by the given author, spread over
// the last 90 days.
func (s *Seeder) BuildPost(author *models.User, n int) *models.Post {
	title := gofakeit.Sentence(s.rand.Intn(6) + 3)
	post := &models.Post{
		Title:    title,
		Slug:     fmt.Sprintf("%s-%d", service.Slugify(title), n),
		Body:     gofakeit.Paragraph(2, 4, 8, "\n\n"),
		Image:    fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		Category: gofakeit.RandomString([]string{"technology", "travel", "food", "science", "culture"}),
		AuthorID: author.ID,
		Status:   true,
	}
	daysBack := s.rand.Intn(90)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(s.rand.Intn(24))*time.Hour)
	return post
}

// SeedUsers creates count users, flagging roughly ratio of them as
// moderators (at least one).
func (s *Seeder) SeedUsers(count int, moderatorRatio float64) ([]*models.User, error) {
	if moderatorRatio <= 0 {
		moderatorRatio = 0.05
	}
	users := make([]*models.User, 0, count)
	moderators := 0
	for i := 0; i < count; i++ {
		moderator := s.rand.Float64() < moderatorRatio
		if moderator {
			moderators++
		}
		users = append(users, s.BuildUser(moderator))
	}
	if moderators == 0 && len(users) > 0 {
		users[0].IsModerator = true
		moderators = 1
	}

	if err := s.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	log.Printf("Seeded %d users (%d moderators)", len(users), moderators)
	return users, nil
}

// SeedPosts creates count posts across the given authors. Roughly 60%
// are approved by a random moderator, 25% stay pending and 15% are
// withdrawn to drafts.
func (s *Seeder) SeedPosts(users []*models.User, count int) ([]*models.Post, error) {
	moderators := moderatorsOf(users)

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.rand.Intn(len(users))]
		post := s.BuildPost(author, i)

		switch roll := s.rand.Float64(); {
		case roll < 0.6 && len(moderators) > 0:
			mod := moderators[s.rand.Intn(len(moderators))]
			at := post.CreatedAt.Add(time.Duration(s.rand.Intn(48)+1) * time.Hour)
			post.Approved = true
			post.ApprovedByID = &mod.ID
			post.ApprovedAt = &at
		case roll < 0.85:
			// pending review: status on, not approved
		default:
			post.Status = false
		}
		posts = append(posts, post)
	}

	if err := s.db.Create(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to seed posts: %w", err)
	}

	// Mirror each approval into the audit trail.
	for _, post := range posts {
		if !post.Approved {
			continue
		}
		decision := &models.ModerationDecision{
			PostID:      post.ID,
			ModeratorID: *post.ApprovedByID,
			Action:      models.ModerationActionApprove,
			CreatedAt:   *post.ApprovedAt,
		}
		if err := s.db.Create(decision).Error; err != nil {
			return nil, fmt.Errorf("failed to seed moderation decisions: %w", err)
		}
	}

	log.Printf("Seeded %d posts", len(posts))
	return posts, nil
}

// SeedEngagement scatters comments and deduplicated views over the
// approved posts.
func (s *Seeder) SeedEngagement(users []*models.User, posts []*models.Post) error {
	var comments int
	var views int

	for _, post := range posts {
		if !post.Approved {
			continue
		}

		for i := 0; i < s.rand.Intn(6); i++ {
			user := users[s.rand.Intn(len(users))]
			comment := &models.Comment{
				PostID:    post.ID,
				UserID:    user.ID,
				Body:      gofakeit.Sentence(s.rand.Intn(15) + 3),
				CreatedAt: post.CreatedAt.Add(time.Duration(s.rand.Intn(72)+1) * time.Hour),
			}
			if err := s.db.Create(comment).Error; err != nil {
				return fmt.Errorf("failed to seed comments: %w", err)
			}
			comments++
		}

		// Repeat viewers collapse on the unique index, like production
		// traffic would.
		for i := 0; i < s.rand.Intn(20); i++ {
			user := users[s.rand.Intn(len(users))]
			uid := user.ID
			view := &models.View{
				PostID:    post.ID,
				UserID:    &uid,
				ViewerKey: models.UserViewerKey(user.ID),
			}
			res := s.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "post_id"}, {Name: "viewer_key"}},
				DoNothing: true,
			}).Create(view)
			if res.Error != nil {
				return fmt.Errorf("failed to seed views: %w", res.Error)
			}
			views += int(res.RowsAffected)
		}
		for i := 0; i < s.rand.Intn(10); i++ {
			view := &models.View{
				PostID:    post.ID,
				ViewerKey: models.VisitorViewerKey(uuid.New()),
			}
			if err := s.db.Create(view).Error; err != nil {
				return fmt.Errorf("failed to seed anonymous views: %w", err)
			}
			views++
		}
	}

	log.Printf("Seeded %d comments and %d views", comments, views)
	return nil
}

// SeedFollowGraph wires a random follow graph: each user follows a
// handful of others, never themselves, each pair at most once.
func (s *Seeder) SeedFollowGraph(users []*models.User) error {
	var edges int
	for _, follower := range users {
		for i := 0; i < s.rand.Intn(8); i++ {
			writer := users[s.rand.Intn(len(users))]
			if writer.ID == follower.ID {
				continue
			}
			res := s.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "follower_id"}, {Name: "writer_id"}},
				DoNothing: true,
			}).Create(&models.Follower{
				FollowerID: follower.ID,
				WriterID:   writer.ID,
			})
			if res.Error != nil {
				return fmt.Errorf("failed to seed follow graph: %w", res.Error)
			}
			edges += int(res.RowsAffected)
		}
	}
	log.Printf("Seeded %d follow edges", edges)
	return nil
}

// Run executes the full seeding pipeline.
func (s *Seeder) Run(opts Options) error {
	users, err := s.SeedUsers(opts.NumUsers, opts.ModeratorRatio)
	if err != nil {
		return err
	}
	posts, err := s.SeedPosts(users, opts.NumPosts)
	if err != nil {
		return err
	}
	if err := s.SeedEngagement(users, posts); err != nil {
		return err
	}
	return s.SeedFollowGraph(users)
}

func moderatorsOf(users []*models.User) []*models.User {
	var moderators []*models.User
	for _, u := range users {
		if u.IsModerator {
			moderators = append(moderators, u)
		}
	}
	return moderators
}
