// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/revofoto/revofoto/internal/compositing"
	"github.com/revofoto/revofoto/internal/config"
	"github.com/revofoto/revofoto/internal/logging"
	"github.com/revofoto/revofoto/internal/media"
	"github.com/revofoto/revofoto/internal/model"
	"github.com/revofoto/revofoto/internal/storage"
	"github.com/revofoto/revofoto/internal/util"
	"github.com/revofoto/revofoto/internal/watermark"
)

// =============================================================================
// APP WIRING
// =============================================================================

// App bundles the wired components behind the CLI handlers.
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Registry *media.Registry
	Store    *storage.Store
	Editor   *compositing.Editor
}

// NewApp wires the application from configuration.
func NewApp(cfg *config.Config, args Args) (*App, error) {
	level := cfg.Logging.Level
	if args.Verbose {
		level = "debug"
	}
	logger := logging.New(logging.Options{Level: level, JSON: cfg.Logging.JSON})
	if args.Quiet {
		logger = logging.NewNop()
	}

	reg := media.NewRegistry()
	store, err := storage.Open(cfg.DatabasePath(), reg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	var wm *watermark.Cache
	if cfg.Watermark.Enabled {
		switch {
		case cfg.Watermark.AssetPath != "":
			wm = watermark.NewCache(watermark.NewFileLoader(cfg.Watermark.AssetPath))
		case cfg.Watermark.AssetURL != "":
			wm = watermark.NewCache(watermark.NewHTTPLoader(cfg.Watermark.AssetURL, nil))
		}
	}

	editor := compositing.NewEditor(reg, wm)
	editor.JPEGQuality = cfg.Export.JPEGQuality

	return &App{
		Config:   cfg,
		Log:      logger,
		Registry: reg,
		Store:    store,
		Editor:   editor,
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	a.Registry.ReleaseAll()
	return a.Store.Close()
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleList prints the stored conversations.
func (a *App) HandleList(ctx context.Context) error {
	convs, err := a.Store.LoadConversations(ctx)
	if err != nil {
		return fmt.Errorf("failed to load conversations: %w", err)
	}
	fmt.Print(FormatConversationList(convs))
	return nil
}

// HandleGallery prints the gallery entries with their adjustments.
func (a *App) HandleGallery(ctx context.Context) error {
	g, err := a.Store.LoadImageGallery(ctx)
	if err != nil {
		return fmt.Errorf("failed to load gallery: %w", err)
	}
	fmt.Print(FormatGalleryList(g))
	return nil
}

// HandleExport renders gallery entry at index through its adjustments,
// stamps the watermark (unless disabled) and writes the file.
func (a *App) HandleExport(ctx context.Context, args Args) error {
	if args.EntryIndex < 0 {
		return fmt.Errorf("export requires a gallery entry index")
	}

	g, err := a.Store.LoadImageGallery(ctx)
	if err != nil {
		return fmt.Errorf("failed to load gallery: %w", err)
	}
	entry := g.EntryAt(args.EntryIndex)
	if entry == nil {
		return fmt.Errorf("no gallery entry at index %d (gallery has %d)", args.EntryIndex, g.Len())
	}

	editor := a.Editor
	if args.NoWatermark {
		cp := *a.Editor
		cp.Watermark = nil
		editor = &cp
	}

	data, mimeType, err := editor.Export(ctx, *entry)
	if err != nil {
		return fmt.Errorf("failed to export entry: %w", err)
	}

	out := args.Output
	if out == "" {
		out = exportFileName(entry, args.EntryIndex, mimeType)
	}
	if err := util.AtomicWriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	a.Log.Info("exported gallery entry",
		slog.Int("index", args.EntryIndex),
		slog.String("path", out),
		slog.Int("bytes", len(data)))
	fmt.Printf("Exported entry %d to %s (%s, %d bytes)\n", args.EntryIndex, out, mimeType, len(data))
	return nil
}

// HandleWipe deletes all stored data. Requires --confirm.
func (a *App) HandleWipe(ctx context.Context, args Args) error {
	if !args.Confirm {
		return fmt.Errorf("wipe deletes all conversations and gallery entries; re-run with --confirm")
	}
	if err := a.Store.ClearAllData(ctx); err != nil {
		return fmt.Errorf("wipe completed with errors: %w", err)
	}
	a.Registry.ReleaseAll()
	fmt.Println("All data deleted.")
	return nil
}

func exportFileName(entry *model.GalleryEntry, index int, mimeType string) string {
	ext := ".png"
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	base := strings.TrimSpace(entry.PromptUsed)
	if base == "" {
		base = fmt.Sprintf("gallery-%d", index)
	}
	if len(base) > 40 {
		base = base[:40]
	}
	base = sanitizeFileName(base)
	return base + ext
}

func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, s)
}
