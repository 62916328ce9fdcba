package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

const sessionStamp = "20060102_150405"

// LogFilePath returns the session log for app started at sessionStart.
func LogFilePath(logsDir, app string, sessionStart time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.log", app, sessionStart.Format(sessionStamp)))
}

// OpenSessionLog creates logsDir if needed and opens the session log for
// appending. Session logs beyond the newest keep are removed first; keep <= 0
// keeps everything.
func OpenSessionLog(logsDir, app string, sessionStart time.Time, keep int) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}
	if keep > 0 {
		// the session about to be opened counts towards keep
		if _, err := PruneSessionLogs(logsDir, app, keep-1); err != nil {
			return nil, err
		}
	}
	path := LogFilePath(logsDir, app, sessionStart)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// PruneSessionLogs removes all but the newest keep session logs of app and
// returns the removed paths. The timestamp in the name orders sessions.
func PruneSessionLogs(logsDir, app string, keep int) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(logsDir, app+".*.log"))
	if err != nil {
		return nil, err
	}
	sessions := matches[:0]
	for _, m := range matches {
		stamp := filepath.Base(m)[len(app)+1:]
		stamp = stamp[:len(stamp)-len(".log")]
		if _, err := time.Parse(sessionStamp, stamp); err == nil {
			sessions = append(sessions, m)
		}
	}
	if len(sessions) <= keep {
		return nil, nil
	}
	slices.Sort(sessions)
	stale := sessions[:len(sessions)-max(keep, 0)]
	for _, p := range stale {
		if err := os.Remove(p); err != nil {
			return nil, fmt.Errorf("removing old session log: %w", err)
		}
	}
	return stale, nil
}
