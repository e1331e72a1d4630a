package watchface

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"fmt"

	"github.com/bodgit/watchface/bmp"
	"github.com/bodgit/watchface/face"
	"github.com/bodgit/watchface/preview"
	"github.com/bodgit/watchface/rle"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is a face file recorded in the catalog.
type Entry struct {
	Checksum   string
	Paths      []string
	FaceNumber uint16
	Kind       face.Kind
	FileID     uint8
	Slots      int
	Blobs      int
	Size       int64
	// Thumbnail is the background scaled to the face selection preview
	// size as a 16-bit bitmap, if it could be decoded
	Thumbnail []byte
}

// FaceDB is a catalog of face files found on disk.
type FaceDB struct {
	db *sql.DB
}

// NewFaceDB opens or creates the catalog in file.
func NewFaceDB(file string) (*FaceDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS face (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, face_number INTEGER NOT NULL, kind TEXT NOT NULL, file_id INTEGER NOT NULL, slots INTEGER NOT NULL, blobs INTEGER NOT NULL, size INTEGER NOT NULL, thumbnail BLOB)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS path (face_id INTEGER NOT NULL, path TEXT NOT NULL UNIQUE, FOREIGN KEY(face_id) REFERENCES face(id))"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS face_number ON face (face_number)"); err != nil {
		return nil, err
	}

	return &FaceDB{
		db: db,
	}, nil
}

// Close closes the catalog.
func (db *FaceDB) Close() error {
	return db.db.Close()
}

// Add records the face file e, or just its paths if a file with the same
// checksum is already known.
func (db *FaceDB) Add(e *Entry) error {
	id, err := db.addFace(e)
	if err != nil {
		return err
	}

	for _, p := range e.Paths {
		if err := db.addPath(id, p); err != nil {
			return err
		}
	}

	return nil
}

func (db *FaceDB) addFace(e *Entry) (int64, error) {
	var thumbnail interface{}
	if len(e.Thumbnail) > 0 {
		thumbnail = e.Thumbnail
	}

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM face WHERE sha1 = ?", e.Checksum).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO face (sha1, face_number, kind, file_id, slots, blobs, size, thumbnail) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", e.Checksum, e.FaceNumber, e.Kind.String(), e.FileID, e.Slots, e.Blobs, e.Size, thumbnail)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

func (db *FaceDB) addPath(id int64, path string) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO path (face_id, path) VALUES (?, ?)", id, path); err != nil {
		return err
	}
	return nil
}

const selectFace = "SELECT id, sha1, face_number, kind, file_id, slots, blobs, size, thumbnail FROM face"

func (db *FaceDB) query(query string, args ...interface{}) ([]*Entry, error) {
	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	var entries []*Entry
	for rows.Next() {
		var id int64
		var kind string
		e := new(Entry)
		if err := rows.Scan(&id, &e.Checksum, &e.FaceNumber, &kind, &e.FileID, &e.Slots, &e.Blobs, &e.Size, &e.Thumbnail); err != nil {
			return nil, err
		}
		if e.Kind, err = face.ParseKind(kind); err != nil {
			return nil, err
		}
		ids = append(ids, id)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		if entries[i].Paths, err = db.paths(id); err != nil {
			return nil, err
		}
	}

	return entries, nil
}

func (db *FaceDB) paths(id int64) ([]string, error) {
	rows, err := db.db.Query("SELECT path FROM path WHERE face_id = ? ORDER BY path", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}

	return paths, rows.Err()
}

// FindByFaceNumber returns every face file with the given face number.
func (db *FaceDB) FindByFaceNumber(n uint16) ([]*Entry, error) {
	return db.query(selectFace+" WHERE face_number = ? ORDER BY sha1", n)
}

// FindByChecksum returns the face file with the given SHA1 checksum, or
// nil if there isn't one.
func (db *FaceDB) FindByChecksum(sha string) (*Entry, error) {
	entries, err := db.query(selectFace+" WHERE sha1 = ?", sha)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return entries[0], nil
}

func checksum(b []byte) string {
	h := sha1.Sum(b)
	return fmt.Sprintf("%.*X", sha1.Size<<1, h[:])
}

// newEntry describes the face file b found at path.
func newEntry(path string, b []byte, f *face.Face) *Entry {
	return &Entry{
		Checksum:   checksum(b),
		Paths:      []string{path},
		FaceNumber: f.FaceNumber,
		Kind:       f.Kind,
		FileID:     f.FileID,
		Slots:      len(f.Populated()),
		Blobs:      int(f.BlobCount),
		Size:       int64(len(b)),
	}
}

// backgroundThumbnail scales the background of the face file b down to the
// face selection preview size.
func backgroundThumbnail(b []byte, f *face.Face) ([]byte, error) {
	j, ok := f.Background()
	if !ok || f.Kind == face.Kind2 {
		return nil, nil
	}

	s := f.Slots[j]
	if s.Type != face.TypeBackground || s.W == 0 || s.H == 0 {
		return nil, nil
	}
	if err := bmp.CheckWidth(int(s.W), 16); err != nil {
		return nil, err
	}

	data, err := f.BlobData(b, int(s.Index))
	if err != nil {
		return nil, err
	}

	m, err := rle.Decode(data, int(s.W), int(s.H), f.Kind.Streaming())
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := bmp.Encode(buf, preview.Thumbnail(m, preview.ThumbnailWidth, preview.ThumbnailHeight), nil); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
