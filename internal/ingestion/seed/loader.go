// Package seed bulk-loads the CSV fixtures shipped with yamdb (category.csv,
// genre.csv, titles.csv, genre_title.csv, users.csv, review.csv,
// comments.csv) into the database. Rows already present are left alone, so
// an import can be re-run safely.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Config tunes the loader; values below 1 select the defaults.
type Config struct {
	Workers   int
	BatchSize int
}

// Report counts the rows written per table. Rows skipped on conflict are not counted.
type Report struct {
	mu       sync.Mutex
	Inserted map[string]int64
	Missing  []string
	Duration time.Duration
}

func (r *Report) add(table string, n int64) {
	r.mu.Lock()
	r.Inserted[table] += n
	r.mu.Unlock()
}

type Loader struct {
	db        *gorm.DB
	logger    *slog.Logger
	workers   int
	batchSize int
}

func NewLoader(db *gorm.DB, cfg Config, logger *slog.Logger) *Loader {
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 500
	}
	return &Loader{db: db, logger: logger, workers: cfg.Workers, batchSize: cfg.BatchSize}
}

// table binds a fixture file to the batched insert of its rows.
type table struct {
	file  string
	tasks func(l *Loader, rows []record, report *Report) ([]Task, error)
}

// stages run in order; tables within a stage only reference earlier stages.
var stages = [][]table{
	{
		{file: "category.csv", tasks: batchesOf("categories", parseCategory)},
		{file: "genre.csv", tasks: batchesOf("genres", parseGenre)},
		{file: "users.csv", tasks: batchesOf("users", parseUser)},
	},
	{
		{file: "titles.csv", tasks: batchesOf("titles", parseTitle)},
	},
	{
		{file: "genre_title.csv", tasks: batchesOf("title_genres", parseTitleGenre)},
		{file: "review.csv", tasks: batchesOf("reviews", parseReview)},
	},
	{
		{file: "comments.csv", tasks: batchesOf("comments", parseComment)},
	},
}

// serialTables have their id sequences moved past the imported ids.
var serialTables = []string{"categories", "genres", "titles", "reviews", "comments"}

// Load imports every fixture found in fsys. Missing files are skipped; a
// malformed row aborts the import before its table is written.
func (l *Loader) Load(ctx context.Context, fsys fs.FS) (*Report, error) {
	start := time.Now()
	report := &Report{Inserted: make(map[string]int64)}

	for i, stage := range stages {
		pool := NewWorkerPool(ctx, l.workers, l.logger)
		pool.Start()

		var parseErr error
		for _, t := range stage {
			rows, err := readTable(fsys, t.file)
			if errors.Is(err, fs.ErrNotExist) {
				l.logger.Warn("seed_file_missing", "file", t.file)
				report.Missing = append(report.Missing, t.file)
				continue
			}
			if err != nil {
				parseErr = err
				break
			}
			tasks, err := t.tasks(l, rows, report)
			if err != nil {
				parseErr = err
				break
			}
			for _, task := range tasks {
				if !pool.Submit(task) {
					break
				}
			}
		}

		if err := errors.Join(parseErr, pool.Wait()); err != nil {
			return report, fmt.Errorf("seed stage %d: %w", i+1, err)
		}
		l.logger.Info("seed_stage_completed", "stage", i+1)
	}

	if err := l.resetSequences(ctx); err != nil {
		return report, err
	}

	report.Duration = time.Since(start)
	l.logger.Info("seed_completed", "inserted", report.Inserted, "duration", report.Duration)
	return report, nil
}

// batchesOf converts rows with parse and splits the models into insert
// tasks of the loader's batch size.
func batchesOf[T any](name string, parse func(record) (T, error)) func(*Loader, []record, *Report) ([]Task, error) {
	return func(l *Loader, rows []record, report *Report) ([]Task, error) {
		items := make([]T, 0, len(rows))
		for _, row := range rows {
			item, err := parse(row)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}

		var tasks []Task
		for start := 0; start < len(items); start += l.batchSize {
			batch := items[start:min(start+l.batchSize, len(items))]
			tasks = append(tasks, func(ctx context.Context) error {
				result := l.db.WithContext(ctx).
					Omit(clause.Associations).
					Clauses(clause.OnConflict{DoNothing: true}).
					Create(&batch)
				if result.Error != nil {
					return fmt.Errorf("insert %s: %w", name, result.Error)
				}
				report.add(name, result.RowsAffected)
				return nil
			})
		}
		return tasks, nil
	}
}

func (l *Loader) resetSequences(ctx context.Context) error {
	for _, name := range serialTables {
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)",
			name,
		)
		if err := l.db.WithContext(ctx).Exec(query).Error; err != nil {
			return fmt.Errorf("reset %s id sequence: %w", name, err)
		}
	}
	return nil
}
