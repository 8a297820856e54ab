package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SessionFile is one session log found on disk.
type SessionFile struct {
	AgentID   string
	SessionID string
	Path      string
}

// Discover lists <root>/<agent>/<sessionsDir>/*<ext>. A missing root yields
// no files and no error. Unreadable agent or sessions directories are skipped
// and reported in the returned error slice; the remaining files are still
// returned.
func Discover(root, sessionsDir, ext string) ([]SessionFile, []error) {
	agents, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("read agents root %s: %w", root, err)}
	}

	var (
		files []SessionFile
		errs  []error
	)
	for _, agent := range agents {
		if !agent.IsDir() {
			continue
		}
		dir := filepath.Join(root, agent.Name(), sessionsDir)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, fmt.Errorf("read sessions dir %s: %w", dir, err))
			}
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
				continue
			}
			files = append(files, SessionFile{
				AgentID:   agent.Name(),
				SessionID: strings.TrimSuffix(e.Name(), ext),
				Path:      filepath.Join(dir, e.Name()),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, errs
}

// SessionDirs lists the existing <root>/<agent>/<sessionsDir> directories.
func SessionDirs(root, sessionsDir string) ([]string, error) {
	agents, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read agents root %s: %w", root, err)
	}

	var dirs []string
	for _, agent := range agents {
		if !agent.IsDir() {
			continue
		}
		dir := filepath.Join(root, agent.Name(), sessionsDir)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

// Identify derives a session file's identity from its path: the session id
// is the file name without ext and the agent id is the directory above the
// sessions directory.
func Identify(path, ext string) SessionFile {
	return SessionFile{
		AgentID:   filepath.Base(filepath.Dir(filepath.Dir(path))),
		SessionID: strings.TrimSuffix(filepath.Base(path), ext),
		Path:      path,
	}
}
