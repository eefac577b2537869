package queue

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

// EnqueuePost hands a publish job to the background worker. Failures are
// final: the caller already acknowledged the request, so a retry storm
// against Instagram is worse than a single clean failure in the log.
func EnqueuePost(asynqClient *asynq.Client, payload PublishPostPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)

	_, err = asynqClient.Enqueue(task, asynq.MaxRetry(0))
	if err != nil {
		return err
	}

	log.Printf("Publish task queued for post %d", payload.PostID)
	return nil
}
