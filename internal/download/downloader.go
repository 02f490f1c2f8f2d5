// Package download fetches weekly episode files published in monthly blocks.
// Episodes are dated every seven days on a fixed weekday, and the whole
// month's files appear at once, so each pass walks from the resume point
// through the end of the current month and stops at the first fetch that
// fails (usually an episode that is not published yet).
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"paydown/internal/storage"
)

const datePlaceholder = "2006.01.02"

type Downloader struct {
	client  *http.Client
	repo    *storage.SQLiteRepository // optional download history, may be nil
	dir     string
	pattern string
	weekday time.Weekday
	now     func() time.Time
}

func New(dir, urlPattern string, weekday time.Weekday, repo *storage.SQLiteRepository) *Downloader {
	return &Downloader{
		client:  &http.Client{Timeout: 60 * time.Second},
		repo:    repo,
		dir:     dir,
		pattern: urlPattern,
		weekday: weekday,
		now:     time.Now,
	}
}

// Run performs one download pass and returns the number of episodes fetched.
// The pass ends quietly at the first failed fetch; the next pass retries from
// the same resume point.
func (d *Downloader) Run(ctx context.Context) (int, error) {
	if !strings.Contains(d.pattern, datePlaceholder) {
		return 0, fmt.Errorf("url pattern %q has no %s date placeholder", d.pattern, datePlaceholder)
	}
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return 0, fmt.Errorf("create download directory: %w", err)
	}

	now := d.now()
	start, err := d.resolveStart(now)
	if err != nil {
		return 0, err
	}
	end := endOfMonth(now)

	if start.After(end) {
		slog.InfoContext(ctx, "No new episodes expected this month",
			"next", start.Format(stateDateLayout))
		return 0, nil
	}

	count := 0
	for date := start; !date.After(end); date = date.AddDate(0, 0, 7) {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		if err := d.fetchEpisode(ctx, date); err != nil {
			slog.WarnContext(ctx, "Stopping download pass",
				"episode_date", date.Format(stateDateLayout),
				"error", err)
			return count, nil
		}

		if err := SaveState(d.dir, date); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// resolveStart picks the first episode date to try: a week after the last
// downloaded episode, or the first episode weekday of the current month when
// no state exists yet.
func (d *Downloader) resolveStart(now time.Time) (time.Time, error) {
	last, ok, err := LoadState(d.dir)
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return last.AddDate(0, 0, 7), nil
	}
	return firstEpisodeOfMonth(now, d.weekday), nil
}

func (d *Downloader) fetchEpisode(ctx context.Context, date time.Time) error {
	episodeURL := strings.Replace(d.pattern, datePlaceholder, date.Format(datePlaceholder), 1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, episodeURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", episodeURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", episodeURL, resp.Status)
	}

	name, err := episodeFileName(episodeURL)
	if err != nil {
		return err
	}
	filePath := filepath.Join(d.dir, name)

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create episode file: %w", err)
	}

	written, err := io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filePath)
		return fmt.Errorf("write episode file: %w", err)
	}

	slog.InfoContext(ctx, "Episode downloaded",
		"episode_date", date.Format(stateDateLayout),
		"file_path", filePath,
		"bytes", written)

	if d.repo != nil {
		if err := d.repo.RecordEpisode(ctx, storage.Episode{
			EpisodeDate: date,
			URL:         episodeURL,
			FilePath:    filePath,
			Bytes:       written,
		}); err != nil {
			slog.WarnContext(ctx, "Failed to record episode", "error", err)
		}
	}

	return nil
}

func episodeFileName(episodeURL string) (string, error) {
	u, err := url.Parse(episodeURL)
	if err != nil {
		return "", fmt.Errorf("parse episode url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("episode url %q has no file name", episodeURL)
	}
	return name, nil
}

// firstEpisodeOfMonth returns the first occurrence of weekday in the month
// containing t.
func firstEpisodeOfMonth(t time.Time, weekday time.Weekday) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset)
}

// endOfMonth returns the last day of the month containing t.
func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}
