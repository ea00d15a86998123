// Package cli loads warriors from the filesystem into an engine.
//
// Layout convention: every file in the warriors directory is one
// warrior. Files whose base name only differs by a trailing digit
// (team1, team2) form a team named by the shared prefix. Everything in
// the zombies directory joins battles without scoring. Files ending in
// .red are assembled from source, anything else is decoded as an
// encoded program.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.creack.net/melee/engine"
	"go.creack.net/melee/vm"
)

// LoadDir loads the warriors directory and, when non-empty, the
// zombies directory. Returns the loaded warriors in directory order.
func LoadDir(e *engine.Engine, warriorsDir, zombiesDir string) ([]*vm.Warrior, error) {
	var out []*vm.Warrior

	names, err := listFiles(warriorsDir)
	if err != nil {
		return nil, err
	}
	teams := teamPrefixes(names)
	for _, name := range names {
		var opts []engine.Option
		if team := teams[baseName(name)]; team != "" {
			opts = append(opts, engine.WithTeam(team))
		}
		w, err := loadFile(e, filepath.Join(warriorsDir, name), opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}

	if zombiesDir != "" {
		names, err := listFiles(zombiesDir)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			w, err := loadFile(e, filepath.Join(zombiesDir, name), engine.AsZombie())
			if err != nil {
				return nil, err
			}
			out = append(out, w)
		}
	}
	return out, nil
}

// LoadFile loads a single warrior file into the engine.
func LoadFile(e *engine.Engine, path string, opts ...engine.Option) (*vm.Warrior, error) {
	return loadFile(e, path, opts...)
}

func loadFile(e *engine.Engine, path string, opts ...engine.Option) (*vm.Warrior, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	name := baseName(filepath.Base(path))
	var w *vm.Warrior
	if strings.HasSuffix(path, ".red") {
		w, err = e.LoadSource(name, string(data), opts...)
	} else {
		w, err = e.Load(name, data, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return w, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

func baseName(file string) string {
	base := file
	for _, ext := range []string{".red", ".cor", ".bin"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// teamPrefixes maps warrior base names to their team name. A team
// exists when two or more files share a prefix and only differ by one
// trailing digit.
func teamPrefixes(files []string) map[string]string {
	count := map[string]int{}
	for _, f := range files {
		if p := stripDigit(baseName(f)); p != "" {
			count[p]++
		}
	}
	out := map[string]string{}
	for _, f := range files {
		base := baseName(f)
		if p := stripDigit(base); p != "" && count[p] >= 2 {
			out[base] = p
		}
	}
	return out
}

func stripDigit(base string) string {
	if len(base) < 2 {
		return ""
	}
	last := base[len(base)-1]
	if last < '0' || last > '9' {
		return ""
	}
	return base[:len(base)-1]
}
