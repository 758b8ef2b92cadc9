package executor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"reunite/internal/fileutil"
	"reunite/internal/reconcile"
	"reunite/internal/services"
	"reunite/internal/sidecar"
)

// MetadataTool is the slice of the exiftool client the executor needs.
// Injected so tests can fake the external binary.
type MetadataTool interface {
	FileType(ctx context.Context, path string) (string, error)
	Embed(ctx context.Context, mediaPath string, meta *sidecar.Metadata) error
	Verify(ctx context.Context, mediaPath string, meta *sidecar.Metadata) error
}

// Options controls which side effects run.
type Options struct {
	// DryRun logs every action instead of performing it.
	DryRun bool
	// Embed writes sidecar metadata into the media file after the rename.
	Embed bool
	// Backup copies the media file aside before the first embed touches it.
	Backup bool
}

// Applied reports what happened (or would have happened) for one resolution.
type Applied struct {
	// MediaPath is the final media path; it changes when a misnamed HEIC is
	// corrected to .jpg before embedding.
	MediaPath string
	Renamed   bool
	Embedded  bool
	Verified  bool
	// Err carries the first failure; classification via the services
	// sentinels. The run always continues past it.
	Err error
}

// Executor performs renames and embeds for matched media files.
type Executor struct {
	opts   Options
	tool   MetadataTool
	logger *slog.Logger
}

// New builds an executor. The tool may be nil when embedding is disabled.
func New(opts Options, tool MetadataTool, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{opts: opts, tool: tool, logger: logger}
}

// Apply executes one resolution: rename to the canonical sidecar name when
// needed, then embed and verify when enabled. Embedding only runs after a
// successful (or simulated) rename.
func (e *Executor) Apply(ctx context.Context, res *reconcile.Resolution) Applied {
	applied := Applied{MediaPath: res.MediaPath}

	if res.NeedsRename {
		if e.opts.DryRun {
			e.logger.Info("would rename sidecar",
				slog.String("from", res.SidecarPath),
				slog.String("to", res.CanonicalPath))
		} else {
			if err := os.Rename(res.SidecarPath, res.CanonicalPath); err != nil {
				applied.Err = services.Wrap(services.ErrExternalTool, "executor", "rename", res.SidecarPath, err)
				return applied
			}
			e.logger.Info("renamed sidecar",
				slog.String("from", res.SidecarPath),
				slog.String("to", res.CanonicalPath))
		}
		applied.Renamed = true
	}

	if !e.opts.Embed {
		return applied
	}

	// Dry-run reports the embed before the tool guard: simulated runs never
	// construct an exiftool client.
	if e.opts.DryRun {
		e.logger.Info("would embed metadata",
			slog.String("media", res.MediaPath),
			slog.String("sidecar", res.CanonicalPath),
			slog.Bool("backup", e.opts.Backup))
		return applied
	}

	if e.tool == nil {
		return applied
	}

	e.embed(ctx, res, &applied)
	return applied
}

func (e *Executor) embed(ctx context.Context, res *reconcile.Resolution, applied *Applied) {
	meta, err := sidecar.Read(res.CanonicalPath)
	if err != nil {
		applied.Err = services.Wrap(services.ErrUnreadableSidecar, "executor", "embed", res.CanonicalPath, err)
		return
	}

	mediaPath, err := e.fixMisnamedHEIC(ctx, applied.MediaPath)
	if err != nil {
		applied.Err = err
		return
	}
	applied.MediaPath = mediaPath

	if e.opts.Backup {
		backup, err := fileutil.BackupFile(mediaPath)
		if err != nil {
			applied.Err = services.Wrap(services.ErrExternalTool, "executor", "backup", mediaPath, err)
			return
		}
		e.logger.Debug("backed up media", slog.String("backup", backup))
	}

	if err := e.tool.Embed(ctx, mediaPath, meta); err != nil {
		applied.Err = err
		return
	}
	applied.Embedded = true
	e.logger.Info("embedded metadata",
		slog.String("media", mediaPath),
		slog.String("sidecar", res.CanonicalPath))

	if err := e.tool.Verify(ctx, mediaPath, meta); err != nil {
		// A write that reads back differently is reported distinctly from a
		// failed write.
		applied.Err = err
		e.logger.Warn("embed verification failed",
			slog.String("media", mediaPath),
			slog.Any("error", err))
		return
	}
	applied.Verified = true
}

// fixMisnamedHEIC renames a .heic file that exiftool identifies as JPEG to
// .jpg before embedding; some exports mislabel converted files.
func (e *Executor) fixMisnamedHEIC(ctx context.Context, mediaPath string) (string, error) {
	if !strings.EqualFold(filepath.Ext(mediaPath), ".heic") {
		return mediaPath, nil
	}
	kind, err := e.tool.FileType(ctx, mediaPath)
	if err != nil || !strings.Contains(kind, "JPEG") {
		return mediaPath, nil
	}
	newPath := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".jpg"
	if err := os.Rename(mediaPath, newPath); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "executor", "heic rename", mediaPath, err)
	}
	e.logger.Info("renamed misnamed HEIC to JPG",
		slog.String("from", mediaPath),
		slog.String("to", newPath))
	return newPath, nil
}
