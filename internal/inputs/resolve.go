// Package inputs expands the extract command's input arguments into a flat
// list of candidate log files.
package inputs

import (
	"io/fs"
	"path/filepath"
)

// Resolve expands args into the files to parse. A plain file argument is
// taken as-is; a directory is walked recursively and every regular file
// under it is collected in walk order. Arguments that do not exist (or
// cannot be walked) are returned in skipped and do not fail the run.
func Resolve(args []string) (files []string, skipped []string) {
	for _, arg := range args {
		err := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			skipped = append(skipped, arg)
		}
	}
	return files, skipped
}
