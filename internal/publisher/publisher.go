package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// MarkerSuffix is appended to an artifact path by the uploader tool when it
// wants the file removed after a successful publish. A stale marker from a
// previous run makes the tool report "file already exists" even though the
// upload went through.
const MarkerSuffix = ".REMOVE_ME"

const publishTimeout = 120 * time.Second

type Request struct {
	Username  string
	Password  string
	ImagePath string
	PostType  string // post, story
}

type Publisher interface {
	Publish(ctx context.Context, req Request) error
}

// CommandPublisher runs the Instagram uploader as a separate process. The
// process gets its own temporary working directory and a hard deadline, so a
// wedged upload can never take the worker down with it.
type CommandPublisher struct {
	command string
}

func NewCommandPublisher(command string) *CommandPublisher {
	return &CommandPublisher{command: command}
}

func (p *CommandPublisher) Publish(ctx context.Context, req Request) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	marker := req.ImagePath + MarkerSuffix
	if err := os.Remove(marker); err == nil {
		slog.Info("removed stale upload marker: " + marker)
	}

	workDir, err := os.MkdirTemp("", "igpublish-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	args := []string{"--image", req.ImagePath, "--type", req.PostType, "--fresh-session"}
	cmd := exec.CommandContext(ctx, p.command, args...)
	cmd.Dir = workDir
	// Credentials go through the environment, not argv.
	cmd.Env = append(os.Environ(),
		"IG_USERNAME="+req.Username,
		"IG_PASSWORD="+req.Password,
	)

	output, err := cmd.CombinedOutput()
	defer os.Remove(marker)

	if err != nil {
		if reportsStaleMarker(string(output)) {
			// The upload succeeded on a previous attempt; the tool only
			// tripped over its own leftover marker file.
			slog.Info(fmt.Sprintf("uploader reported stale marker for %s, treating as published", req.ImagePath))
			return nil
		}
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("uploader timed out after %s", publishTimeout)
		}
		return fmt.Errorf("uploader failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func reportsStaleMarker(output string) bool {
	return strings.Contains(output, "file already exists") && strings.Contains(output, MarkerSuffix)
}
