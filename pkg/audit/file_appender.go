package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const dayLayout = "2006-01-02"

// DefaultRetentionDays - сколько дней хранятся дневные файлы
const DefaultRetentionDays = 90

// FileAppenderConfig - конфигурация file appender
type FileAppenderConfig struct {
	// FilePath is the base name. Entries go to one file per UTC day:
	// audit/cgm.jsonl -> audit/cgm-2024-03-15.jsonl.
	FilePath      string `yaml:"path" koanf:"path"`
	RetentionDays int    `yaml:"retention_days" koanf:"retention_days"`
}

// FileAppender writes one JSON entry per line into day files and removes
// day files older than the retention period.
type FileAppender struct {
	mu        sync.Mutex
	base      string
	retention int

	day  string // day of the open file
	file *os.File
}

// DayFile returns the file that holds the entries of day.
func DayFile(base string, day time.Time) string {
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "-" + day.UTC().Format(dayLayout) + ext
}

// NewFileAppender - создать file appender
func NewFileAppender(config FileAppenderConfig) (*FileAppender, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("audit file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	retention := config.RetentionDays
	if retention <= 0 {
		retention = DefaultRetentionDays
	}
	return &FileAppender{base: config.FilePath, retention: retention}, nil
}

// Append - записать entry в файл своего дня
func (fa *FileAppender) Append(ctx context.Context, entry *Entry) error {
	data, err := entry.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	data = append(data, '\n')

	fa.mu.Lock()
	defer fa.mu.Unlock()

	if err := fa.open(entry.Timestamp); err != nil {
		return err
	}
	if _, err := fa.file.Write(data); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// open switches to the file of ts's day. Must be called with mu held.
func (fa *FileAppender) open(ts time.Time) error {
	day := ts.UTC().Format(dayLayout)
	if fa.file != nil && fa.day == day {
		return nil
	}
	if fa.file != nil {
		fa.file.Close()
		fa.file = nil
	}

	file, err := os.OpenFile(DayFile(fa.base, ts), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit file: %w", err)
	}
	fa.file, fa.day = file, day
	fa.prune(ts)
	return nil
}

// prune removes day files older than the retention period relative to now.
func (fa *FileAppender) prune(now time.Time) {
	cutoff := now.UTC().AddDate(0, 0, -fa.retention).Format(dayLayout)
	for _, f := range fa.dayFiles() {
		if f.day < cutoff {
			os.Remove(f.path)
		}
	}
}

type dayFile struct {
	day  string
	path string
}

// dayFiles lists the day files of base, newest first.
func (fa *FileAppender) dayFiles() []dayFile {
	ext := filepath.Ext(fa.base)
	prefix := strings.TrimSuffix(fa.base, ext) + "-"
	matches, _ := filepath.Glob(prefix + "*" + ext)

	var out []dayFile
	for _, m := range matches {
		day := strings.TrimSuffix(strings.TrimPrefix(m, prefix), ext)
		if _, err := time.Parse(dayLayout, day); err != nil {
			continue
		}
		out = append(out, dayFile{day: day, path: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].day > out[j].day })
	return out
}

// History reads day files from the newest until q is satisfied. Lines that
// are not entries are skipped.
func (fa *FileAppender) History(ctx context.Context, q Query) ([]*Entry, error) {
	fa.mu.Lock()
	defer fa.mu.Unlock()

	var out []*Entry
	for _, f := range fa.dayFiles() {
		if !q.Since.IsZero() && f.day < q.Since.UTC().Format(dayLayout) {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matched, err := readDay(f.path, q)
		if err != nil {
			return nil, err
		}
		// строки в файле идут по возрастанию времени
		for i := len(matched) - 1; i >= 0 && len(out) < q.limit(); i-- {
			out = append(out, matched[i])
		}
		if len(out) >= q.limit() {
			break
		}
	}
	return out, nil
}

func readDay(path string, q Query) ([]*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}
	defer f.Close()

	var matched []*Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		var e Entry
		if json.Unmarshal(sc.Bytes(), &e) != nil {
			continue
		}
		if q.Match(&e) {
			matched = append(matched, &e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit file: %w", err)
	}
	return matched, nil
}

// Flush - сбросить буфер
func (fa *FileAppender) Flush() error {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	if fa.file == nil {
		return nil
	}
	return fa.file.Sync()
}

// Close - закрыть файл
func (fa *FileAppender) Close() error {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	if fa.file == nil {
		return nil
	}
	err := fa.file.Close()
	fa.file = nil
	return err
}
