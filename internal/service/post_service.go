package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hibiken/asynq"
	config "github.com/mdriyaz-a/captionflow/configs"
	"github.com/mdriyaz-a/captionflow/internal/models"
	"github.com/mdriyaz-a/captionflow/internal/queue"
	"github.com/mdriyaz-a/captionflow/internal/repository"
	"github.com/mdriyaz-a/captionflow/internal/transfer"
	"github.com/mdriyaz-a/captionflow/pkg/utils"
)

var (
	ErrCaptionRequired = errors.New("caption is required")
	ErrInvalidPostType = errors.New("post type must be post or story")
	ErrPostNotFound    = errors.New("post not found")
)

type PostService interface {
	// Create saves the record and, when credentials are attached, queues a
	// background publish. The returned status acknowledges the queueing
	// outcome only; the request never waits for Instagram.
	Create(ctx context.Context, userID int64, c *transfer.PostCreation) (*models.Post, string, error)
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, id, userID int64) (*models.Post, error)
	Update(ctx context.Context, id, userID int64, u *transfer.PostUpdate) (*models.Post, error)
	Remove(ctx context.Context, id, userID int64) error
	Publish(ctx context.Context, id, userID int64, username, password string) (string, error)
}

type postService struct {
	cfg      config.Config
	p        repository.PostRepository
	ar       ArtifactService
	enqueuer *asynq.Client
}

func NewPostService(cfg config.Config, p repository.PostRepository, ar ArtifactService, enqueuer *asynq.Client) PostService {
	return &postService{cfg: cfg, p: p, ar: ar, enqueuer: enqueuer}
}

func (s *postService) Create(ctx context.Context, userID int64, c *transfer.PostCreation) (*models.Post, string, error) {
	if strings.TrimSpace(c.Caption) == "" {
		return nil, "", ErrCaptionRequired
	}

	postType := c.PostType
	if postType == "" {
		postType = models.PostTypePost
	}
	if postType != models.PostTypePost && postType != models.PostTypeStory {
		return nil, "", ErrInvalidPostType
	}

	imagePath := c.ImagePath
	if imagePath != "" {
		// The client may echo back a path from an earlier deployment;
		// re-anchor it to the current upload dir when possible.
		if resolved, err := s.ar.Resolve(imagePath); err == nil {
			imagePath = resolved
		}
	}

	post := &models.Post{
		UserID:           userID,
		ImagePath:        nullString(imagePath),
		ImageDescription: nullString(c.ImageDescription),
		Caption:          c.Caption,
		PostType:         postType,
	}

	id, err := s.p.Create(ctx, nil, post)
	if err != nil {
		return nil, "", err
	}
	post.ID = id

	status := transfer.InstagramStatusNotRequested
	if c.InstagramCredentials != nil && c.InstagramCredentials.Username != "" {
		status = s.enqueuePublish(post, c.InstagramCredentials.Username, c.InstagramCredentials.Password)
	}

	return post, status, nil
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	return s.p.ListByUser(ctx, userID)
}

func (s *postService) PostInfo(ctx context.Context, id, userID int64) (*models.Post, error) {
	post, err := s.p.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, id, userID int64, u *transfer.PostUpdate) (*models.Post, error) {
	post, err := s.PostInfo(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(u.Caption) != "" {
		post.Caption = u.Caption
	}
	if u.PostType != "" {
		if u.PostType != models.PostTypePost && u.PostType != models.PostTypeStory {
			return nil, ErrInvalidPostType
		}
		post.PostType = u.PostType
	}

	if err := s.p.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) Remove(ctx context.Context, id, userID int64) error {
	removed, err := s.p.Remove(ctx, id, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrPostNotFound
	}
	return nil
}

func (s *postService) Publish(ctx context.Context, id, userID int64, username, password string) (string, error) {
	post, err := s.PostInfo(ctx, id, userID)
	if err != nil {
		return "", err
	}
	return s.enqueuePublish(post, username, password), nil
}

func (s *postService) enqueuePublish(post *models.Post, username, password string) string {
	if !post.ImagePath.Valid || post.ImagePath.String == "" {
		return transfer.InstagramStatusSkipped
	}

	encrypted, err := utils.Encrypt([]byte(password), []byte(s.cfg.SecretKey))
	if err != nil {
		return transfer.InstagramStatusFailed
	}

	err = queue.EnqueuePost(s.enqueuer, queue.PublishPostPayload{
		PostID:   post.ID,
		Username: username,
		Password: encrypted,
		PostType: post.PostType,
	})
	if err != nil {
		return transfer.InstagramStatusFailed
	}

	return transfer.InstagramStatusQueued
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
