package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/mdriyaz-a/captionflow/internal/imaging"
	"github.com/mdriyaz-a/captionflow/internal/publisher"
	"github.com/mdriyaz-a/captionflow/pkg/utils"
)

func (j *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if err := j.PublishPost(ctx, payload); err != nil {
		log.Printf("Error publishing post %d: %v", payload.PostID, err)
		return err
	}

	return nil
}

// PublishPost runs one publish attempt end to end: resolve the stored image
// path, normalize the image for Instagram, run the uploader, then record the
// outcome. The post row is only touched on success, so a failed attempt can
// be retriggered and is_posted never lies.
func (j *Queue) PublishPost(ctx context.Context, payload PublishPostPayload) error {
	lock := j.recordLock(payload.PostID)
	lock.Lock()
	defer lock.Unlock()

	post, err := j.pr.GetByID(ctx, payload.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		// Deleted between enqueue and execution; nothing to publish.
		slog.Info(fmt.Sprintf("post %d no longer exists, dropping publish task", payload.PostID))
		return nil
	}
	if post.IsPosted {
		slog.Info(fmt.Sprintf("post %d already published, dropping duplicate task", payload.PostID))
		return nil
	}

	if !post.ImagePath.Valid || post.ImagePath.String == "" {
		return fmt.Errorf("post %d has no image to publish", payload.PostID)
	}

	imagePath, err := j.ar.Resolve(post.ImagePath.String)
	if err != nil {
		return err
	}

	uploadPath, err := imaging.ConvertToInstagramSize(imagePath)
	if err != nil {
		slog.Info("instagram resize failed, uploading original: " + err.Error())
		uploadPath = imagePath
	}

	password, err := utils.Decrypt(payload.Password, []byte(j.cfg.SecretKey))
	if err != nil {
		return err
	}

	err = j.pub.Publish(ctx, publisher.Request{
		Username:  payload.Username,
		Password:  password,
		ImagePath: uploadPath,
		PostType:  payload.PostType,
	})
	if err != nil {
		return err
	}

	if err := j.pr.MarkPosted(ctx, post.ID); err != nil {
		// Upload already happened; surface the bookkeeping failure but do
		// not retry the publish.
		slog.Info(err.Error())
	}

	log.Printf("Post %d published to Instagram as %s", post.ID, payload.PostType)
	return nil
}
