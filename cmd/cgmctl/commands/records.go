package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ruslano69/cgm-backoffice/pkg/adapters"
	"github.com/ruslano69/cgm-backoffice/pkg/audit"
	"github.com/ruslano69/cgm-backoffice/pkg/fieldmap"
	"github.com/ruslano69/cgm-backoffice/pkg/query"
	"github.com/ruslano69/cgm-backoffice/pkg/repository"
	"github.com/ruslano69/cgm-backoffice/pkg/update"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Ping checks the database connection
func Ping(ctx context.Context, w io.Writer, p adapters.Provider) error {
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	fmt.Fprintf(w, "✓ Connected to %s\n", p.Type())
	return nil
}

// InitDB creates the missing entity tables.
func InitDB(ctx context.Context, w io.Writer, set *repository.Set) error {
	if err := set.CreateTables(ctx); err != nil {
		return err
	}
	for _, r := range set.All() {
		fmt.Fprintf(w, "✓ %s (%s)\n", r.Entity().Table, r.Entity().Title)
	}
	return nil
}

// Recent lists the latest records of the entity.
func Recent(ctx context.Context, w io.Writer, repo *repository.Repository, limit int, format string) error {
	rows, err := repo.Recent(ctx, limit)
	if err != nil {
		return err
	}
	return printRecords(w, repo, rows, format, aliases(repo.Entity().RecentProjection)...)
}

// Search runs a search profile with criteria given as name=value.
func Search(ctx context.Context, w io.Writer, repo *repository.Repository, profile string, criteria []string, format string) error {
	values, err := ParsePairs(criteria)
	if err != nil {
		return err
	}
	p, err := repo.Entity().Profile(profile)
	if err != nil {
		return err
	}
	rows, err := repo.Search(ctx, profile, values)
	if err != nil {
		return err
	}
	return printRecords(w, repo, rows, format, aliases(p.Projection)...)
}

// Get prints every field of one record.
func Get(ctx context.Context, w io.Writer, repo *repository.Repository, id int64, format string) error {
	rec, ok, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s id=%d", ErrNotFound, repo.Entity().Name, id)
	}
	return printRecords(w, repo, []repository.Record{rec}, format, repo.Entity().PrimaryKey)
}

// Update applies KEY=VALUE assignments to one record. Keys are form keys or
// column names; allowed restricts the writable columns when not empty.
func Update(ctx context.Context, w io.Writer, repo *repository.Repository, id int64, assignments []string, allowed []string) error {
	values, err := ParsePairs(assignments)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("nothing to update: use --set KEY=VALUE")
	}

	m := repo.Entity().Mapping
	candidate := make(map[string]any, len(values))
	for k, v := range values {
		candidate[k] = v
	}

	req := update.Request{ID: id, Candidate: m.TagAll(candidate)}
	if len(allowed) > 0 {
		req.Allowed = fieldmap.Columns(allowed...)
	}

	applied, err := repo.Update(ctx, req)
	if err != nil {
		return err
	}
	if !applied {
		fmt.Fprintf(w, "⚠ Nothing to update for %s id=%d\n", repo.Entity().Name, id)
		return nil
	}
	fmt.Fprintf(w, "✓ Updated %s id=%d\n", repo.Entity().Name, id)
	return nil
}

// Delete removes one or more records and prints a summary.
func Delete(ctx context.Context, w io.Writer, repo *repository.Repository, ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("no ids given")
	}
	if len(ids) == 1 {
		deleted, err := repo.Delete(ctx, ids[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: %s id=%d", ErrNotFound, repo.Entity().Name, ids[0])
		}
		fmt.Fprintf(w, "✓ Deleted %s id=%d\n", repo.Entity().Name, ids[0])
		return nil
	}

	res := repo.DeleteMany(ctx, ids)
	fmt.Fprintf(w, "✓ Deleted %d of %d record(s)\n", res.Succeeded, res.Requested)
	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, "⚠ Not found: %v\n", res.Skipped)
	}
	for _, f := range res.Failed {
		fmt.Fprintf(w, "✗ id=%d: %v\n", f.Item, f.Err)
	}
	return nil
}

// History prints the latest actions on the entity.
func History(ctx context.Context, w io.Writer, repo *repository.Repository, limit int) error {
	entries, err := repo.History(ctx, limit)
	if errors.Is(err, audit.ErrNoHistory) {
		return fmt.Errorf("action history is not readable: enable the database, redis or file audit")
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No actions recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(w, e.String())
	}
	return nil
}

// PruneHistory removes database history entries older than days.
func PruneHistory(ctx context.Context, w io.Writer, p adapters.Provider, table string, days int) error {
	if days <= 0 {
		return fmt.Errorf("days must be positive, got %d", days)
	}
	da, err := audit.NewDatabaseAppender(ctx, p, audit.DatabaseAppenderConfig{TableName: table})
	if err != nil {
		return err
	}
	before := time.Now().AddDate(0, 0, -days)
	n, err := da.DeleteOlderThan(ctx, before)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Removed %d history entries before %s\n", n, before.Format("02/01/2006"))
	return nil
}

// ParsePairs parses NAME=VALUE arguments. Values may contain '=' and ','.
func ParsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q: want NAME=VALUE", p)
		}
		out[name] = value
	}
	return out, nil
}

// ParseIDs parses a comma-separated list of record ids.
func ParseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func aliases(projection []query.Projection) []string {
	out := make([]string, len(projection))
	for i, p := range projection {
		out[i] = p.Alias
		if out[i] == "" {
			out[i] = p.Column
		}
	}
	return out
}
