package glitch

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jsphweid/digiscore/model"
	"github.com/pkg/errors"
)

const suffix = "_glitch"

// OutputPath puts the _glitch suffix in front of the extension.
func OutputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + suffix + ext
}

func isNumeric(name string) bool {
	_, err := strconv.ParseUint(name, 10, 64)
	return err == nil
}

// Pop909Pairs finds <root>/<N>/<N>.mid for every numeric folder N and pairs it
// with <outDir>/<N>_glitch.mid. Folders without a main file are ignored.
func Pop909Pairs(root, outDir string) ([]model.FilePair, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %v", root)
	}

	var res []model.FilePair
	for _, e := range entries {
		if !e.IsDir() || !isNumeric(e.Name()) {
			continue
		}
		main := filepath.Join(root, e.Name(), e.Name()+".mid")
		if _, err := os.Stat(main); err != nil {
			continue
		}
		res = append(res, model.FilePair{
			Input:  main,
			Output: filepath.Join(outDir, e.Name()+suffix+".mid"),
		})
	}
	return res, nil
}
