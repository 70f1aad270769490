package catalog

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
)

// Entry is one launchable application.
type Entry struct {
	Name   string `json:"name"`
	Exec   string `json:"exec"`
	Source string `json:"source"`
}

// Binary returns the executable name of the entry's command line.
func (e Entry) Binary() string {
	fields := strings.Fields(e.Exec)
	if len(fields) == 0 {
		return ""
	}
	return filepath.Base(fields[0])
}

// Catalog indexes applications from desktop entry directories and binary
// directories and resolves spoken names to the closest entry.
type Catalog struct {
	desktopDirs []string
	binDirs     []string
	aliases     map[string]string
	logger      *slog.Logger

	mu      sync.RWMutex
	entries []Entry
}

// New creates a Catalog. Call Scan before Match.
func New(desktopDirs, binDirs []string, aliases map[string]string, logger *slog.Logger) *Catalog {
	normalized := make(map[string]string, len(aliases))
	for k, v := range aliases {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &Catalog{
		desktopDirs: desktopDirs,
		binDirs:     binDirs,
		aliases:     normalized,
		logger:      logger,
	}
}

// Dirs returns every directory the catalogue reads from.
func (c *Catalog) Dirs() []string {
	return append(append([]string(nil), c.desktopDirs...), c.binDirs...)
}

// Scan rebuilds the index. Missing directories are skipped.
// Desktop entries win over binaries with the same name.
func (c *Catalog) Scan() error {
	seen := make(map[string]bool)
	var entries []Entry

	for _, dir := range c.desktopDirs {
		found, err := scanDesktopDir(dir)
		if err != nil {
			return err
		}
		for _, e := range found {
			key := strings.ToLower(e.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, e)
		}
	}

	for _, dir := range c.binDirs {
		found, err := scanBinDir(dir)
		if err != nil {
			return err
		}
		for _, e := range found {
			key := strings.ToLower(e.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	c.logger.Debug("catalog scanned", "entries", len(entries))
	return nil
}

// Entries returns a copy of the index.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Entry(nil), c.entries...)
}

// Match resolves name to an entry. Aliases are applied first, then an exact
// name or binary match, then the best fuzzy match.
func (c *Catalog) Match(name string) (Entry, bool) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return Entry{}, false
	}
	if alias, ok := c.aliases[query]; ok {
		query = strings.ToLower(alias)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if strings.ToLower(e.Name) == query || strings.ToLower(e.Binary()) == query {
			return e, true
		}
	}

	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = strings.ToLower(e.Name)
	}
	matches := fuzzy.Find(query, names)
	if len(matches) == 0 {
		return Entry{}, false
	}
	return c.entries[matches[0].Index], true
}

func scanDesktopDir(dir string) ([]Entry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.desktop"))
	if err != nil {
		return nil, fmt.Errorf("catalog: globbing %s: %w", dir, err)
	}

	var entries []Entry
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		e, ok := ParseDesktopEntry(data)
		if !ok {
			continue
		}
		e.Source = p
		entries = append(entries, e)
	}
	return entries, nil
}

func scanBinDir(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: reading %s: %w", dir, err)
	}

	var entries []Entry
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		path := filepath.Join(dir, de.Name())
		entries = append(entries, Entry{Name: de.Name(), Exec: path, Source: path})
	}
	return entries, nil
}

// ParseDesktopEntry reads the [Desktop Entry] group of a freedesktop file.
// Hidden, NoDisplay and non-Application entries are rejected.
func ParseDesktopEntry(data []byte) (Entry, bool) {
	var e Entry
	inGroup := false
	appType := ""
	hidden := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inGroup = line == "[Desktop Entry]"
			continue
		}
		if !inGroup {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch k {
		case "Name":
			e.Name = v
		case "Exec":
			e.Exec = stripFieldCodes(v)
		case "Type":
			appType = v
		case "NoDisplay", "Hidden":
			if v == "true" {
				hidden = true
			}
		}
	}

	if e.Name == "" || e.Exec == "" || hidden {
		return Entry{}, false
	}
	if appType != "" && appType != "Application" {
		return Entry{}, false
	}
	return e, true
}

// stripFieldCodes removes %f, %U and friends from an Exec line.
func stripFieldCodes(exec string) string {
	fields := strings.Fields(exec)
	out := fields[:0]
	for _, f := range fields {
		if len(f) == 2 && f[0] == '%' {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
