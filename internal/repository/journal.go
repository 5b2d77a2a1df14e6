package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

const journalFileName = "journal.bbolt"

// defaultAuthorName and defaultAuthorEmail stand in for the identity of the
// operator running commands against a repository; there is no concept of a
// separately configured user the way a general-purpose VCS has one.
const (
	defaultAuthorName  = "pwm"
	defaultAuthorEmail = "pwm@nowhere.com"
)

var (
	bucketCommits = []byte("commits")
	bucketTrees   = []byte("trees")
	bucketHead    = []byte("head")
)

var headKey = []byte("head")

// emptyTreeID is the well-known identity of the tree containing no paths,
// analogous to git's 4b825dc6... empty tree.
var emptyTreeID = treeHash(nil)

// commitRecord is one entry in the commits bucket, keyed by its own id.
type commitRecord struct {
	Parent    string // empty string for the initial commit
	Tree      string
	Message   string
	Author    string
	Timestamp int64 // unix seconds, supplied by the caller
}

// Journal is an append-only log of tree snapshots, each snapshot recording
// the full set of repository-relative paths present at that point in time.
// It replaces a full version-control history with the minimum needed to
// answer "what paths exist" and "what changed, and when."
type Journal struct {
	db *bolt.DB
}

// OpenJournal opens (creating if necessary) the bbolt-backed journal at
// path.
func OpenJournal(path string) (*Journal, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, ioErr(err, "open journal %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketCommits, bucketTrees, bucketHead} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, ioErr(err, "initialize journal buckets")
	}

	return &Journal{db: db}, nil
}

// Close releases the journal's underlying file handle.
func (j *Journal) Close() error {
	if err := j.db.Close(); err != nil {
		return ioErr(err, "close journal")
	}
	return nil
}

// treeHash computes the content identity of a tree: the SHA-256 digest of
// its sorted, newline-joined path list. Two snapshots with the same path set
// always hash identically, which is what lets CommitPaths skip creating a
// commit when nothing actually changed.
func treeHash(paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	h := sha256.Sum256([]byte(strings.Join(sorted, "\n")))
	return hex.EncodeToString(h[:])
}

// head returns the current head commit id, or "" if the journal has no
// commits yet.
func (j *Journal) head() (string, error) {
	var id string
	err := j.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketHead).Get(headKey)
		if v != nil {
			id = string(v)
		}
		return nil
	})
	return id, err
}

// headTreePaths returns the path set recorded by the current head commit,
// or nil if the journal has no commits yet (the empty tree).
func (j *Journal) headTreePaths() ([]string, error) {
	headID, err := j.head()
	if err != nil {
		return nil, ioErr(err, "read journal head")
	}
	if headID == "" {
		return nil, nil
	}

	var commit commitRecord
	err = j.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketCommits).Get([]byte(headID))
		if data == nil {
			return notFound(nil, "head commit %s missing from journal", headID)
		}
		return msgpack.Unmarshal(data, &commit)
	})
	if err != nil {
		return nil, err
	}
	if commit.Tree == emptyTreeID {
		return nil, nil
	}

	var paths []string
	err = j.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketTrees).Get([]byte(commit.Tree))
		if data == nil {
			return notFound(nil, "tree %s missing from journal", commit.Tree)
		}
		return msgpack.Unmarshal(data, &paths)
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// CommitPaths records a new snapshot whose path set is paths, with message
// as the commit message. If the resulting tree is identical to the current
// head's tree, no new commit is created (deduplicating no-op writes).
func (j *Journal) CommitPaths(paths []string, message string) error {
	tree := treeHash(paths)

	return j.db.Update(func(tx *bolt.Tx) error {
		headBucket := tx.Bucket(bucketHead)
		commitsBucket := tx.Bucket(bucketCommits)
		treesBucket := tx.Bucket(bucketTrees)

		parentID := ""
		if v := headBucket.Get(headKey); v != nil {
			parentID = string(v)

			var parent commitRecord
			if data := commitsBucket.Get(v); data != nil {
				if err := msgpack.Unmarshal(data, &parent); err != nil {
					return serialization(err, "decode parent commit")
				}
				if parent.Tree == tree {
					return nil // no-op write, matching head
				}
			}
		} else if tree == emptyTreeID {
			return nil // nothing committed yet, and nothing to commit
		}

		if tree != emptyTreeID {
			treeData, err := msgpack.Marshal(paths)
			if err != nil {
				return serialization(err, "encode tree")
			}
			if err := treesBucket.Put([]byte(tree), treeData); err != nil {
				return err
			}
		}

		commit := commitRecord{
			Parent:    parentID,
			Tree:      tree,
			Message:   message,
			Author:    defaultAuthorName + " <" + defaultAuthorEmail + ">",
			Timestamp: time.Now().Unix(),
		}
		commitData, err := msgpack.Marshal(&commit)
		if err != nil {
			return serialization(err, "encode commit")
		}

		id := commitID(commit)
		if err := commitsBucket.Put([]byte(id), commitData); err != nil {
			return err
		}
		return headBucket.Put(headKey, []byte(id))
	})
}

// commitID derives a content-addressed commit identifier so that replaying
// the same sequence of commits (as tests do) yields the same ids.
func commitID(c commitRecord) string {
	h := sha256.Sum256([]byte(c.Tree + "\x00" + c.Parent + "\x00" + c.Message))
	return hex.EncodeToString(h[:])
}

// List returns the paths recorded in the journal's head snapshot whose
// repository-relative form has prefix as a prefix, sorted byte-lexically.
func (j *Journal) List(prefix string) ([]string, error) {
	paths, err := j.headTreePaths()
	if err != nil {
		return nil, err
	}

	var out []string
	for _, p := range paths {
		if prefix == "" || strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}
