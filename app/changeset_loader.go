package app

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mergegate/mergegate/domain"
)

// changesetJSON is the on-disk changeset description
type changesetJSON struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Files       map[string]string `json:"files"`
	OldFiles    map[string]string `json:"old_files"`
}

// skippedDirs are never descended into when loading a directory
var skippedDirs = map[string]bool{
	".git":         true,
	"__pycache__":  true,
	"venv":         true,
	".venv":        true,
	"node_modules": true,
	".tox":         true,
}

// LoadChangeset reads a changeset from a JSON description file or, when
// given a directory, synthesizes one from its Python sources. Directory
// changesets have no prior versions, so diff-based checks see every file
// as new.
func LoadChangeset(path string) (*domain.Changeset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, domain.NewInputError("cannot read changeset path", err)
	}
	if info.IsDir() {
		return loadChangesetDir(path)
	}
	return loadChangesetFile(path)
}

func loadChangesetFile(path string) (*domain.Changeset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewInputError("cannot read changeset file", err)
	}

	var raw changesetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.NewInputError("changeset file is not valid JSON", err)
	}
	if raw.Files == nil {
		raw.Files = map[string]string{}
	}

	return &domain.Changeset{
		Title:       raw.Title,
		Description: raw.Description,
		Files:       raw.Files,
		OldFiles:    raw.OldFiles,
	}, nil
}

func loadChangesetDir(root string) (*domain.Changeset, error) {
	files := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".py") && d.Name() != "CHANGELOG.md" {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	if err != nil {
		return nil, domain.NewInputError("cannot walk changeset directory", err)
	}

	return &domain.Changeset{
		Title: filepath.Base(root),
		Files: files,
	}, nil
}
