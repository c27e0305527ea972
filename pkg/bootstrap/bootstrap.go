package bootstrap

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/clipdeck/clipdeck/pkg/authors"
	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/content"
	"github.com/clipdeck/clipdeck/pkg/genres"
	"github.com/clipdeck/clipdeck/pkg/models"
	"github.com/clipdeck/clipdeck/pkg/settings"
	"github.com/clipdeck/clipdeck/pkg/synclogs"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

const (
	AuthorsFile = "authors.json"
	GenresFile  = "genres.json"
	SoundsFile  = "sounds.json"
	SongsFile   = "songs.json"

	// AudioDir holds the audio files named by bundled records.
	AudioDir = "audio"
)

type Counts struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

type Result struct {
	Skipped bool   `json:"skipped"`
	Authors Counts `json:"authors"`
	Genres  Counts `json:"genres"`
	Sounds  Counts `json:"sounds"`
	Songs   Counts `json:"songs"`
}

// Importer loads the data bundled with the app into an empty store.
type Importer struct {
	db        *bun.DB
	data      fs.FS
	soundsDir string
	log       logger.Logger
	device    synclogs.Device
	syncLogs  *synclogs.Service
}

func NewImporter(db *bun.DB, data fs.FS, cfg *config.Config) *Importer {
	return &Importer{
		db:        db,
		data:      data,
		soundsDir: cfg.SoundsDir,
		log:       logger.New(),
		device:    synclogs.DeviceFromConfig(cfg),
		syncLogs:  synclogs.NewService(db),
	}
}

// Run imports the bundle unless a previous run already did. A record that
// cannot be stored is logged and skipped; the rest still load. Only a store
// that cannot record the import is an error.
func (imp *Importer) Run(ctx context.Context) (*Result, error) {
	settingsService := settings.NewService(imp.db)
	memory, err := settingsService.RetrieveAppMemory(ctx)
	if err != nil {
		return nil, err
	}
	if memory.HasImportedBundledData {
		return &Result{Skipped: true}, nil
	}

	slog := imp.syncLogs.NewSyncLogger(ctx, imp.device, imp.log)
	result := &Result{}

	authorService := authors.NewService(imp.db)
	var authorRecords []authorRecord
	if imp.load(slog, AuthorsFile, &authorRecords) {
		for _, r := range authorRecords {
			err := authorService.CreateAuthor(ctx, r.toModel())
			imp.count(slog, &result.Authors, "author", r.ID, err)
		}
	}

	genreService := genres.NewService(imp.db)
	var genreRecords []genreRecord
	if imp.load(slog, GenresFile, &genreRecords) {
		for _, r := range genreRecords {
			err := genreService.CreateGenre(ctx, r.toModel())
			imp.count(slog, &result.Genres, "genre", r.ID, err)
		}
	}

	contentService := content.NewService(imp.db, imp.soundsDir)
	var soundRecords []contentRecord
	if imp.load(slog, SoundsFile, &soundRecords) {
		for _, r := range soundRecords {
			c := r.toModel(models.ContentTypeSound)
			c.Filename = imp.copyAudio(slog, r)
			err := contentService.CreateContent(ctx, c)
			imp.count(slog, &result.Sounds, "sound", r.ID, err)
		}
	}

	var songRecords []contentRecord
	if imp.load(slog, SongsFile, &songRecords) {
		for _, r := range songRecords {
			c := r.toModel(models.ContentTypeSong)
			c.Filename = imp.copyAudio(slog, r)
			err := contentService.CreateContent(ctx, c)
			imp.count(slog, &result.Songs, "song", r.ID, err)
		}
	}

	memory.HasImportedBundledData = true
	err = settingsService.UpdateAppMemory(ctx, memory, settings.UpdateOptions{
		Columns: []string{"has_imported_bundled_data"},
	})
	if err != nil {
		return nil, err
	}

	slog.Info("imported bundled data", logger.Data{
		"authors": result.Authors.Imported,
		"genres":  result.Genres.Imported,
		"sounds":  result.Sounds.Imported,
		"songs":   result.Songs.Imported,
		"failed":  result.Authors.Failed + result.Genres.Failed + result.Sounds.Failed + result.Songs.Failed,
	})
	return result, nil
}

// load decodes one bundle file into v. A missing file is not an error.
func (imp *Importer) load(slog *synclogs.SyncLogger, name string, v interface{}) bool {
	data, err := fs.ReadFile(imp.data, name)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("bundled data file is missing", logger.Data{"file": name})
		return false
	}
	if err != nil {
		slog.Error("failed to read bundled data file", err, logger.Data{"file": name})
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Error("failed to parse bundled data file", err, logger.Data{"file": name})
		return false
	}
	return true
}

func (imp *Importer) count(slog *synclogs.SyncLogger, c *Counts, kind, id string, err error) {
	if err != nil {
		c.Failed++
		slog.Error("failed to import bundled "+kind, err, logger.Data{"id": id})
		return
	}
	c.Imported++
}

// copyAudio puts the record's audio file where downloaded sounds live. The
// record is still imported without a file when this fails.
func (imp *Importer) copyAudio(slog *synclogs.SyncLogger, r contentRecord) *string {
	if r.Filename == "" {
		return nil
	}
	filename := filepath.Base(r.Filename)

	if err := imp.copyFile(path.Join(AudioDir, filename), filepath.Join(imp.soundsDir, filename)); err != nil {
		slog.Error("failed to copy bundled audio", err, logger.Data{"id": r.ID, "filename": filename})
		return nil
	}
	return &filename
}

func (imp *Importer) copyFile(src, dest string) error {
	in, err := imp.data.Open(src)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.WithStack(err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(out.Close())
}
