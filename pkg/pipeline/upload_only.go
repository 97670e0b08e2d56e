package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/hashgraph-online/media-mint-go/pkg/storage"
	"go.uber.org/zap"
)

type UploadOptions struct {
	// Delay is waited between consecutive uploads.
	Delay time.Duration
	Tags  map[string]string
}

type UploadResult struct {
	Path    string
	Asset   storage.Asset
	Skipped bool
	Err     error
}

type UploadSummary struct {
	RunID    string
	Results  []UploadResult
	Uploaded int
	Failed   int
	Skipped  int
}

// UploadOnly uploads each path independently. Missing files are skipped and a failed
// upload does not stop the remaining ones. The error is non-nil only when ctx ends.
func (r *Runner) UploadOnly(ctx context.Context, paths []string, options UploadOptions) (UploadSummary, error) {
	state := r.newRun()
	summary := UploadSummary{RunID: state.id, Results: make([]UploadResult, 0, len(paths))}
	if r.Uploader == nil {
		return summary, errors.New("runner needs an uploader")
	}

	attempted := 0
	for _, path := range paths {
		result := UploadResult{Path: path}

		if _, err := storage.StatFile(path); err != nil {
			state.logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
			result.Skipped = true
			result.Err = err
			summary.Skipped++
			summary.Results = append(summary.Results, result)
			continue
		}

		if attempted > 0 && options.Delay > 0 {
			timer := time.NewTimer(options.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return summary, ctx.Err()
			case <-timer.C:
			}
		}
		attempted++

		asset, err := storage.UploadFile(ctx, r.Uploader, path, "", "", options.Tags)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, ctxErr
			}
			state.logger.Error("upload failed", zap.String("path", path), zap.Error(err))
			result.Err = err
			summary.Failed++
		} else {
			state.logger.Info("file uploaded", zap.String("path", path), zap.String("uri", asset.URI))
			result.Asset = asset
			summary.Uploaded++
		}
		summary.Results = append(summary.Results, result)
	}

	state.logger.Info("upload summary",
		zap.Int("uploaded", summary.Uploaded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}
