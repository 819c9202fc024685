// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apkg serializes a deck into an Anki package: a zip archive
// holding a schema-11 SQLite collection ("collection.anki2") and an empty
// media manifest.
//
// The archive is assembled in temporary files and renamed into place only
// after every write succeeded, so a failed run never leaves a truncated
// package behind.
package apkg

import (
	"archive/zip"
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/trish-deck/pkg/types"
)

const (
	collectionFile = "collection.anki2"
	mediaFile      = "media"
	fieldSep       = "\x1f"
	extension      = ".apkg"
)

// DefaultFilename derives a package filename from a deck title: every
// non-alphanumeric character becomes "_" and ".apkg" is appended.
func DefaultFilename(deckTitle string) string {
	var b strings.Builder
	for _, r := range deckTitle {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + extension
}

// Writer writes decks to package files.
type Writer struct {
	// Now returns the timestamp used for modification times and row IDs.
	// Nil uses time.Now.
	Now func() time.Time
}

// WriteSummary reports what a Write call stored.
type WriteSummary struct {
	Path  string
	Notes int
	Bytes int64
}

// Write serializes deck to path. Existing files at path are replaced only
// when the new package is complete.
func (w *Writer) Write(ctx context.Context, path string, deck *types.Deck) (WriteSummary, error) {
	now := time.Now
	if w != nil && w.Now != nil {
		now = w.Now
	}
	ts := now()

	tmpDir, err := os.MkdirTemp("", "trish-deck-*")
	if err != nil {
		return WriteSummary{}, fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, collectionFile)
	if err := buildCollection(ctx, dbPath, deck, ts); err != nil {
		return WriteSummary{}, err
	}

	outDir := filepath.Dir(path)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteSummary{}, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	tmp, err := os.CreateTemp(outDir, ".trish-deck-*.tmp")
	if err != nil {
		return WriteSummary{}, fmt.Errorf("creating temp package: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return WriteSummary{}, fmt.Errorf("setting package permissions: %w", err)
	}

	if err := writeArchive(tmp, dbPath); err != nil {
		tmp.Close()
		return WriteSummary{}, err
	}
	info, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return WriteSummary{}, fmt.Errorf("stat temp package: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return WriteSummary{}, fmt.Errorf("closing temp package: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return WriteSummary{}, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return WriteSummary{}, fmt.Errorf("renaming package into place: %w", err)
	}

	return WriteSummary{Path: path, Notes: len(deck.Cards), Bytes: info.Size()}, nil
}

// buildCollection creates the SQLite collection at dbPath.
func buildCollection(ctx context.Context, dbPath string, deck *types.Deck, ts time.Time) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("opening collection: %w", err)
	}
	defer db.Close()

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertCol(ctx, tx, deck, ts); err != nil {
		return err
	}
	if err := insertNotes(ctx, tx, deck, ts); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing collection: %w", err)
	}
	return nil
}

func insertCol(ctx context.Context, tx *sql.Tx, deck *types.Deck, ts time.Time) error {
	mod := ts.Unix()
	modMillis := ts.UnixMilli()

	models := map[string]modelJSON{
		strconv.FormatInt(deck.Model.ID, 10): newModelJSON(deck.Model, deck.ID, mod),
	}
	decks := map[string]deckJSON{
		strconv.Itoa(defaultDeckID):    newDeckJSON(defaultDeckID, "Default", mod),
		strconv.FormatInt(deck.ID, 10): newDeckJSON(deck.ID, deck.Title, mod),
	}
	dconf := map[string]deckConfJSON{"1": defaultDeckConf()}

	encoded := make([]string, 0, 4)
	for _, v := range []interface{}{newColConf(deck.ID, deck.Model.ID), models, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling collection config: %w", err)
		}
		encoded = append(encoded, string(data))
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		dayStart(ts).Unix(), modMillis, modMillis, schemaVersion,
		encoded[0], encoded[1], encoded[2], encoded[3],
	)
	if err != nil {
		return fmt.Errorf("inserting collection row: %w", err)
	}
	return nil
}

func insertNotes(ctx context.Context, tx *sql.Tx, deck *types.Deck, ts time.Time) error {
	noteStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		 VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')`)
	if err != nil {
		return fmt.Errorf("preparing note insert: %w", err)
	}
	defer noteStmt.Close()

	cardStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
		 VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return fmt.Errorf("preparing card insert: %w", err)
	}
	defer cardStmt.Close()

	mod := ts.Unix()
	base := ts.UnixMilli()
	for i, c := range deck.Cards {
		fields := c.Fields()
		sortField := stripHTML(fields[0])
		id := base + int64(i)

		if _, err := noteStmt.ExecContext(ctx,
			id, c.GUID, deck.Model.ID, mod,
			joinTags(c.Tags), strings.Join(fields, fieldSep),
			sortField, checksum(sortField),
		); err != nil {
			return fmt.Errorf("inserting note %s: %w", c.GUID, err)
		}
		if _, err := cardStmt.ExecContext(ctx, id, id, deck.ID, mod, i+1); err != nil {
			return fmt.Errorf("inserting card for note %s: %w", c.GUID, err)
		}
	}
	return nil
}

func writeArchive(w io.Writer, dbPath string) error {
	zw := zip.NewWriter(w)

	db, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening collection: %w", err)
	}
	defer db.Close()

	fw, err := zw.Create(collectionFile)
	if err != nil {
		return fmt.Errorf("adding %s: %w", collectionFile, err)
	}
	if _, err := io.Copy(fw, db); err != nil {
		return fmt.Errorf("writing %s: %w", collectionFile, err)
	}

	mw, err := zw.Create(mediaFile)
	if err != nil {
		return fmt.Errorf("adding %s: %w", mediaFile, err)
	}
	if _, err := io.WriteString(mw, "{}"); err != nil {
		return fmt.Errorf("writing %s: %w", mediaFile, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

// joinTags formats tags the way the notes table stores them: space
// separated with a leading and trailing space.
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " " + strings.Join(tags, " ") + " "
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup from a field for sorting and duplicate checks.
// Tags become spaces so adjacent block elements do not run together.
func stripHTML(s string) string {
	return strings.Join(strings.Fields(htmlTagRe.ReplaceAllString(s, " ")), " ")
}

// checksum is the integer value of the first 8 hex digits of the SHA-1
// of the sort field.
func checksum(s string) int64 {
	sum := sha1.Sum([]byte(s))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:4]), 16, 64)
	return v
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
