package elscan

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFiles_OnePackagePerDirectory(t *testing.T) {
	fset := token.NewFileSet()
	packages := make(map[string]map[string][]string)

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.PackageClauseOnly)
		require.NoError(t, err, path)
		name := strings.TrimSuffix(f.Name.Name, "_test")
		dir := filepath.Dir(path)
		if packages[dir] == nil {
			packages[dir] = make(map[string][]string)
		}
		packages[dir][name] = append(packages[dir][name], filepath.Base(path))
		return nil
	})
	require.NoError(t, err)

	for _, dir := range []string{"search", "proximity", "storage"} {
		assert.Contains(t, packages, dir)
	}
	for dir, names := range packages {
		assert.Len(t, names, 1, "%s declares packages %v", dir, names)
	}
}
