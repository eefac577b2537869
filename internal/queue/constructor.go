package queue

import (
	"sync"

	config "github.com/mdriyaz-a/captionflow/configs"
	"github.com/mdriyaz-a/captionflow/internal/publisher"
	"github.com/mdriyaz-a/captionflow/internal/repository"
)

// ArtifactResolver maps a possibly stale stored image path to a readable
// file on disk.
type ArtifactResolver interface {
	Resolve(storedPath string) (string, error)
}

type Queue struct {
	cfg config.Config
	pr  repository.PostRepository
	pub publisher.Publisher
	ar  ArtifactResolver

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewQueue(
	cfg config.Config,
	pr repository.PostRepository,
	pub publisher.Publisher,
	ar ArtifactResolver) *Queue {
	return &Queue{
		cfg:   cfg,
		pr:    pr,
		pub:   pub,
		ar:    ar,
		locks: make(map[int64]*sync.Mutex),
	}
}

// recordLock returns the per-post mutex, so two jobs for the same post
// serialize while jobs for different posts run in parallel.
func (j *Queue) recordLock(postID int64) *sync.Mutex {
	j.mu.Lock()
	defer j.mu.Unlock()

	lock, ok := j.locks[postID]
	if !ok {
		lock = &sync.Mutex{}
		j.locks[postID] = lock
	}
	return lock
}

const TaskTypePublishPost = "publish:instagram"

type PublishPostPayload struct {
	PostID   int64  `json:"post_id"`
	Username string `json:"username"`
	// Password is AES-GCM encrypted with the server secret; it is never
	// stored in Redis in the clear.
	Password string `json:"password"`
	PostType string `json:"post_type"`
}
