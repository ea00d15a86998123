// Package assets embeds a handful of sample warriors used by the demo
// commands and the tests.
package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed warriors
var warriorsFS embed.FS

// Warriors returns the embedded sample sources keyed by base name
// (without the .red extension).
func Warriors() map[string]string {
	out := map[string]string{}
	entries, _ := fs.ReadDir(warriorsFS, "warriors")
	for _, e := range entries {
		data, err := fs.ReadFile(warriorsFS, "warriors/"+e.Name())
		if err != nil {
			continue
		}
		out[strings.TrimSuffix(e.Name(), ".red")] = string(data)
	}
	return out
}

// Names returns the embedded warrior names, sorted.
func Names() []string {
	m := Warriors()
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
