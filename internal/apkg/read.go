// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apkg

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Note is a note row read back from a package.
type Note struct {
	ID      int64
	GUID    string
	ModelID int64
	Fields  []string
	Tags    []string
	SortFld string
	Csum    int64
}

// DeckInfo is a deck entry from the collection's deck table.
type DeckInfo struct {
	ID   int64
	Name string
}

// ModelInfo is a note model entry from the collection.
type ModelInfo struct {
	ID     string
	Name   string
	Fields []string
	QFmt   string
	AFmt   string
}

// Collection is the inspectable content of a package.
type Collection struct {
	Version int
	Decks   []DeckInfo
	Models  []ModelInfo
	Notes   []Note
	Cards   int
	Media   string
}

// Read opens the package at path and returns its decks, models, and notes
// in note ID order.
func Read(ctx context.Context, path string) (*Collection, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening package %s: %w", path, err)
	}
	defer zr.Close()

	tmpDir, err := os.MkdirTemp("", "trish-deck-read-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var (
		dbPath string
		media  string
	)
	for _, f := range zr.File {
		switch f.Name {
		case collectionFile:
			dbPath = filepath.Join(tmpDir, collectionFile)
			if err := extract(f, dbPath); err != nil {
				return nil, err
			}
		case mediaFile:
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", mediaFile, err)
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", mediaFile, err)
			}
			media = string(data)
		}
	}
	if dbPath == "" {
		return nil, fmt.Errorf("package %s has no %s", path, collectionFile)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening collection: %w", err)
	}
	defer db.Close()

	col := &Collection{Media: media}
	if err := readCol(ctx, db, col); err != nil {
		return nil, err
	}
	if err := readNotes(ctx, db, col); err != nil {
		return nil, err
	}
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM cards`).Scan(&col.Cards); err != nil {
		return nil, fmt.Errorf("counting cards: %w", err)
	}
	return col, nil
}

func extract(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return out.Close()
}

func readCol(ctx context.Context, db *sql.DB, col *Collection) error {
	var modelsRaw, decksRaw string
	err := db.QueryRowContext(ctx, `SELECT ver, models, decks FROM col`).
		Scan(&col.Version, &modelsRaw, &decksRaw)
	if err != nil {
		return fmt.Errorf("reading collection row: %w", err)
	}

	var models map[string]modelJSON
	if err := json.Unmarshal([]byte(modelsRaw), &models); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}
	for _, m := range models {
		info := ModelInfo{ID: m.ID, Name: m.Name}
		for _, f := range m.Flds {
			info.Fields = append(info.Fields, f.Name)
		}
		if len(m.Tmpls) > 0 {
			info.QFmt = m.Tmpls[0].QFmt
			info.AFmt = m.Tmpls[0].AFmt
		}
		col.Models = append(col.Models, info)
	}

	var decks map[string]deckJSON
	if err := json.Unmarshal([]byte(decksRaw), &decks); err != nil {
		return fmt.Errorf("parsing decks: %w", err)
	}
	for _, d := range decks {
		col.Decks = append(col.Decks, DeckInfo{ID: d.ID, Name: d.Name})
	}
	return nil
}

func readNotes(ctx context.Context, db *sql.DB, col *Collection) error {
	rows, err := db.QueryContext(ctx,
		`SELECT id, guid, mid, flds, tags, sfld, csum FROM notes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n          Note
			flds, tags string
		)
		if err := rows.Scan(&n.ID, &n.GUID, &n.ModelID, &flds, &tags, &n.SortFld, &n.Csum); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		n.Fields = strings.Split(flds, fieldSep)
		n.Tags = strings.Fields(tags)
		col.Notes = append(col.Notes, n)
	}
	return rows.Err()
}

// Deck returns the deck with the given ID.
func (c *Collection) Deck(id int64) (DeckInfo, bool) {
	for _, d := range c.Decks {
		if d.ID == id {
			return d, true
		}
	}
	return DeckInfo{}, false
}

// NoteByGUID returns the note with the given GUID.
func (c *Collection) NoteByGUID(guid string) (Note, bool) {
	for _, n := range c.Notes {
		if n.GUID == guid {
			return n, true
		}
	}
	return Note{}, false
}
