package service

import (
	"context"

	"blog/internal/models"
	"blog/internal/notifications"
	"blog/internal/observability"
	"blog/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	msgLiked   = "Post liked"
	msgUnliked = "Post unliked"
)

type LikeService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	events   EventPublisher
}

func NewLikeService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	events EventPublisher,
) *LikeService {
	return &LikeService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		events:   publisherOrNoop(events),
	}
}

// ToggleLike removes the user's like if present and adds it otherwise.
// Concurrent toggles are settled by the unique (user, post) index: an add that
// loses the race is reported as liked.
func (s *LikeService) ToggleLike(ctx context.Context, postID, userID string) (res *models.ToggleResult, err error) {
	ctx, end := observability.StartSpan(ctx, "LikeService.ToggleLike",
		attribute.String("post.id", postID),
		attribute.String("user.id", userID),
	)
	defer func() { end(err) }()

	if _, err = s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	removed, err := s.likeRepo.Remove(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if removed {
		res = &models.ToggleResult{Liked: false, Message: msgUnliked}
	} else {
		if _, err = s.likeRepo.Add(ctx, userID, postID); err != nil {
			return nil, err
		}
		res = &models.ToggleResult{Liked: true, Message: msgLiked}
	}

	state := "unliked"
	if res.Liked {
		state = "liked"
	}
	observability.LikeToggles.WithLabelValues(state).Inc()
	s.events.Publish(ctx, notifications.EventLikeToggled, map[string]any{
		"postId": postID,
		"userId": userID,
		"liked":  res.Liked,
	})
	return res, nil
}

// ListLikes returns who liked the post. Users is never nil.
func (s *LikeService) ListLikes(ctx context.Context, postID string) (*models.LikeSummary, error) {
	users, err := s.likeRepo.Likers(ctx, postID)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return &models.LikeSummary{Count: len(users), Users: users}, nil
}
