package service

import (
	"context"
	"strconv"
	"strings"

	"chronicle/internal/cache"
	"chronicle/internal/models"
	"chronicle/internal/observability"
	"chronicle/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// slugAttempts caps how many disambiguating suffixes CreatePost tries
// before giving up. High enough that exhausting it means something is
// wrong beyond title collisions.
const slugAttempts = 50

// PostService is the content store: it owns post records, slug
// assignment and the author's side of the lifecycle. Visibility
// decisions belong to the moderation workflow.
type PostService struct {
	postRepo    repository.PostRepository
	isModerator func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	AuthorID uint
	Title    string
	Body     string
	Category string
	Image    string
}

// UpdatePostInput carries author-editable fields. Nil means leave
// unchanged. Approval fields are deliberately absent; they are only
// reachable through the moderation workflow.
type UpdatePostInput struct {
	PostID   uint
	EditorID uint
	Title    *string
	Body     *string
	Category *string
	Image    *string
	Status   *bool
}

type DeletePostInput struct {
	PostID  uint
	ActorID uint
}

// ListPublicPostsInput shapes a page of the public feed.
type ListPublicPostsInput struct {
	Category string
	Sort     string
	Limit    int
	Offset   int
}

func NewPostService(
	postRepo repository.PostRepository,
	isModerator func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		isModerator: isModerator,
	}
}

// CreatePost validates the input, assigns a unique slug and stores the
// post. New posts start visible (status=true) and unapproved.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost")
	defer span.End()

	const maxTitleLen = 300
	const maxBodyLen = 50000

	if in.AuthorID == 0 {
		return nil, models.NewValidationError("Author is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Body) > maxBodyLen {
		return nil, models.NewValidationError("Body too long (max 50000 characters)")
	}

	base := Slugify(in.Title)
	slug, err := s.nextFreeSlug(ctx, base, 0)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	post := &models.Post{
		Title:    strings.TrimSpace(in.Title),
		Slug:     slug,
		Body:     in.Body,
		Image:    in.Image,
		Category: in.Category,
		AuthorID: in.AuthorID,
		Status:   true,
		Approved: false,
	}

	// A concurrent create can still win the slug between the existence
	// probe and the insert; the unique index reports that as a conflict
	// and we resolve it with the next suffix instead of failing.
	for attempt := 0; ; attempt++ {
		err := s.postRepo.Create(ctx, post)
		if err == nil {
			break
		}
		if !models.HasCode(err, models.CodeConflict) || attempt >= 2 {
			span.SetError(err)
			return nil, err
		}
		next, slugErr := s.nextFreeSlug(ctx, base, suffixAfter(post.Slug, base))
		if slugErr != nil {
			span.SetError(slugErr)
			return nil, slugErr
		}
		post.Slug = next
	}

	observability.PostsCreated.WithLabelValues(in.Category).Inc()
	span.AddAttributes(attribute.String("post.slug", post.Slug))
	return s.postRepo.GetByID(ctx, post.ID)
}

// nextFreeSlug probes base, base-from, base-(from+1), ... for the first
// unreserved slug.
func (s *PostService) nextFreeSlug(ctx context.Context, base string, from int) (string, error) {
	for n := from; n < from+slugAttempts; n++ {
		candidate := SuffixedSlug(base, n)
		exists, err := s.postRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", models.NewConflictError("Could not assign a unique slug", nil)
}

// suffixAfter returns the numeric suffix to try next, given the slug
// that just collided.
func suffixAfter(slug, base string) int {
	if slug == base {
		return 1
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(slug, base+"-")); err == nil {
		return n + 1
	}
	return 1
}

// GetPost resolves a post by numeric ID or by slug.
func (s *PostService) GetPost(ctx context.Context, slugOrID string) (*models.Post, error) {
	if id, err := strconv.ParseUint(slugOrID, 10, 64); err == nil {
		return s.postRepo.GetByID(ctx, uint(id))
	}
	return s.postRepo.GetBySlug(ctx, slugOrID)
}

// ListPublicPosts returns the public feed: only posts with both the
// author status toggle and the moderation approval set. Default order
// is creation time descending.
func (s *PostService) ListPublicPosts(ctx context.Context, in ListPublicPostsInput) ([]*models.Post, error) {
	if in.Limit <= 0 {
		in.Limit = 20
	}
	if in.Limit > 100 {
		in.Limit = 100
	}

	filter := repository.PublicFilter{
		Category: in.Category,
		Sort:     in.Sort,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}

	// Cache only the default first page; everything else goes straight
	// to the store.
	if in.Category == "" && in.Sort == "" && in.Offset == 0 && in.Limit == 20 {
		var posts []*models.Post
		err := cache.Aside(ctx, cache.PublicFeedKey, &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.ListPublic(ctx, filter)
			return fetchErr
		})
		return posts, err
	}

	return s.postRepo.ListPublic(ctx, filter)
}

// ListAuthorPosts is the author's dashboard: every lifecycle state,
// bypassing the approval gate. Only the author or a moderator may read
// it.
func (s *PostService) ListAuthorPosts(ctx context.Context, authorID, requesterID uint, limit, offset int) ([]*models.Post, error) {
	if requesterID != authorID {
		mod, err := s.isModerator(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if !mod {
			return nil, models.NewUnauthorizedError("You can only list your own posts")
		}
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset)
}

// UpdatePost applies author edits. Only the post's author may edit, and
// only content fields and the status toggle; the approval fields are
// not reachable from here.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != in.EditorID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		if title != post.Title {
			post.Title = title
			base := Slugify(title)
			if base != post.Slug && !strings.HasPrefix(post.Slug, base+"-") {
				slug, err := s.nextFreeSlug(ctx, base, 0)
				if err != nil {
					return nil, err
				}
				post.Slug = slug
			}
		}
	}
	if in.Body != nil {
		post.Body = *in.Body
	}
	if in.Category != nil {
		post.Category = *in.Category
	}
	if in.Image != nil {
		post.Image = *in.Image
	}
	if in.Status != nil {
		post.Status = *in.Status
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post and cascades to its comments and views.
// Allowed for the author and for moderators.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	if post.AuthorID != in.ActorID {
		mod, err := s.isModerator(ctx, in.ActorID)
		if err != nil {
			return err
		}
		if !mod {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}
