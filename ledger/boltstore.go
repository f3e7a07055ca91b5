package ledger

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/madurogg/libprizepool-go/identity"
)

var (
	bucketPools    = []byte("pools")
	bucketAccounts = []byte("accounts")
	bucketPlayers  = []byte("players")
	bucketReceipts = []byte("receipts")
)

// BoltStore persists the ledger in a single bbolt database. bbolt allows one
// writer at a time and rolls back any Update whose function returns an error.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// openTimeout bounds the wait for the file lock held by another process.
const openTimeout = time.Second

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPools, bucketAccounts, bucketPlayers, bucketReceipts} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Path returns the database file path.
func (s *BoltStore) Path() string { return s.db.Path() }

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// View runs fn in a read-only bbolt transaction.
func (s *BoltStore) View(fn func(tx Tx) error) error {
	err := s.db.View(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
	return mapClosed(err)
}

// Update runs fn in a read-write bbolt transaction.
func (s *BoltStore) Update(fn func(tx Tx) error) error {
	err := s.db.Update(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
	return mapClosed(err)
}

func mapClosed(err error) error {
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return err
}

// receiptKey encodes mint || sequence (8 bytes, big-endian) so receipts of
// one mint are contiguous and ordered.
func receiptKey(mint identity.Identity, seq uint64) []byte {
	k := make([]byte, identity.Size+8)
	copy(k, mint[:])
	binary.BigEndian.PutUint64(k[identity.Size:], seq)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// ---------------------------------------------------------------------------
// boltTx implements Tx.
// ---------------------------------------------------------------------------

type boltTx struct {
	tx *bbolt.Tx
}

func (t *boltTx) get(bucket, key []byte, v interface{}, notFound error) error {
	data := t.tx.Bucket(bucket).Get(key)
	if data == nil {
		return notFound
	}
	if err := decodeGob(data, v); err != nil {
		return fmt.Errorf("boltstore: decode %s: %w", bucket, err)
	}
	return nil
}

func (t *boltTx) put(bucket, key []byte, v interface{}) error {
	data, err := encodeGob(v)
	if err != nil {
		return fmt.Errorf("boltstore: encode %s: %w", bucket, err)
	}
	if err := t.tx.Bucket(bucket).Put(key, data); err != nil {
		if errors.Is(err, bbolt.ErrTxNotWritable) {
			return ErrReadOnly
		}
		return fmt.Errorf("boltstore: put %s: %w", bucket, err)
	}
	return nil
}

func (t *boltTx) GetPool(mint identity.Identity) (*Pool, error) {
	var p Pool
	if err := t.get(bucketPools, mint[:], &p, ErrPoolNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *boltTx) PutPool(pool *Pool) error {
	if pool == nil {
		return fmt.Errorf("%w: pool", ErrNilParam)
	}
	return t.put(bucketPools, pool.TokenMint[:], pool)
}

func (t *boltTx) GetAccount(addr identity.Identity) (*Account, error) {
	var a Account
	if err := t.get(bucketAccounts, addr[:], &a, ErrAccountNotFound); err != nil {
		return nil, err
	}
	return &a, nil
}

func (t *boltTx) PutAccount(acct *Account) error {
	if acct == nil {
		return fmt.Errorf("%w: account", ErrNilParam)
	}
	return t.put(bucketAccounts, acct.Address[:], acct)
}

func (t *boltTx) GetPlayer(wallet identity.Identity) (*Player, error) {
	var p Player
	if err := t.get(bucketPlayers, wallet[:], &p, ErrPlayerNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *boltTx) PutPlayer(player *Player) error {
	if player == nil {
		return fmt.Errorf("%w: player", ErrNilParam)
	}
	return t.put(bucketPlayers, player.Wallet[:], player)
}

func (t *boltTx) ListPlayers() ([]*Player, error) {
	var result []*Player
	err := t.tx.Bucket(bucketPlayers).ForEach(func(_, v []byte) error {
		var p Player
		if err := decodeGob(v, &p); err != nil {
			return fmt.Errorf("boltstore: decode player: %w", err)
		}
		result = append(result, &p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (t *boltTx) AppendReceipt(r *Receipt) error {
	if r == nil {
		return fmt.Errorf("%w: receipt", ErrNilParam)
	}
	last, err := t.lastReceiptSeq(r.TokenMint)
	if err != nil {
		return err
	}
	if r.Sequence != last+1 {
		return fmt.Errorf("%w: have %d, got %d", ErrSequenceGap, last, r.Sequence)
	}
	return t.put(bucketReceipts, receiptKey(r.TokenMint, r.Sequence), r)
}

func (t *boltTx) lastReceiptSeq(mint identity.Identity) (uint64, error) {
	c := t.tx.Bucket(bucketReceipts).Cursor()
	k, _ := seekLast(c, mint)
	if k == nil {
		return 0, nil
	}
	return binary.BigEndian.Uint64(k[identity.Size:]), nil
}

// seekLast positions c on the newest receipt of mint, or returns a nil key.
func seekLast(c *bbolt.Cursor, mint identity.Identity) ([]byte, []byte) {
	upper := receiptKey(mint, ^uint64(0))
	k, v := c.Seek(upper)
	switch {
	case k == nil:
		k, v = c.Last()
	case !bytes.Equal(k, upper):
		k, v = c.Prev()
	}
	if k == nil || !bytes.HasPrefix(k, mint[:]) {
		return nil, nil
	}
	return k, v
}

func (t *boltTx) ListReceipts(mint identity.Identity, limit int) ([]*Receipt, error) {
	var result []*Receipt
	c := t.tx.Bucket(bucketReceipts).Cursor()
	for k, v := seekLast(c, mint); k != nil && bytes.HasPrefix(k, mint[:]); k, v = c.Prev() {
		if limit > 0 && len(result) >= limit {
			break
		}
		var r Receipt
		if err := decodeGob(v, &r); err != nil {
			return nil, fmt.Errorf("boltstore: decode receipt: %w", err)
		}
		result = append(result, &r)
	}
	return result, nil
}
