package randstate

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/contriboss/leeloo-go"
	"github.com/contriboss/leeloo-go/uni"
)

var (
	statesBucket = []byte("states")

	seedKey = []byte("seed")
	stepKey = []byte("step")
	doneKey = []byte("done")
)

const seedSize = 32

// Store keeps named States in a bolt database file.
//
// Each state is a bucket under "states" holding the seed, the step and,
// for a Tracker, the done steps as a compressed list dump.
type Store struct {
	db *bolt.DB
}

// OpenStore opens or creates the database at path.
func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open state store %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(statesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create states bucket")
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores st under name, replacing any previous state.
func (s *Store) Save(name string, st State) error {
	if name == "" {
		return ErrEmptyStateName.New()
	}

	// done starts with a marker byte so that an empty list is still stored
	var done []byte
	if st.Done != nil {
		buf := bytes.NewBuffer([]byte{1})
		if err := st.Done.WriteCompressed(buf); err != nil {
			return errors.Wrap(err, "failed to encode done steps")
		}
		done = buf.Bytes()
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(statesBucket)
		if root.Bucket([]byte(name)) != nil {
			if err := root.DeleteBucket([]byte(name)); err != nil {
				return err
			}
		}
		b, err := root.CreateBucket([]byte(name))
		if err != nil {
			return errors.Wrapf(err, "failed to create bucket for %s", name)
		}

		if err := b.Put(seedKey, encodeSeed(st.Seed)); err != nil {
			return err
		}
		step := make([]byte, 8)
		binary.LittleEndian.PutUint64(step, st.Step)
		if err := b.Put(stepKey, step); err != nil {
			return err
		}
		if done != nil {
			return b.Put(doneKey, done)
		}
		return nil
	})
}

// Load returns the state stored under name.
func (s *Store) Load(name string) (State, error) {
	var st State
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(statesBucket).Bucket([]byte(name))
		if b == nil {
			return ErrStateNotFound.New(name)
		}

		seed, err := decodeSeed(name, b.Get(seedKey))
		if err != nil {
			return err
		}
		st.Seed = seed

		step := b.Get(stepKey)
		if len(step) != 8 {
			return ErrCorruptState.New(name, "step")
		}
		st.Step = binary.LittleEndian.Uint64(step)

		// Get results die with the transaction; ReadCompressed copies.
		if done := b.Get(doneKey); len(done) > 0 {
			st.Done = leeloo.NewList[uint64]()
			if err := st.Done.ReadCompressed(bytes.NewReader(done[1:])); err != nil {
				return errors.Wrapf(err, "failed to decode done steps of %s", name)
			}
		}
		return nil
	})
	return st, err
}

// Delete removes the state stored under name. Deleting a missing state is
// not an error.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket(statesBucket).DeleteBucket([]byte(name))
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}

// Names lists the stored states in key order.
func (s *Store) Names() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(statesBucket).ForEach(func(k, v []byte) error {
			// v is nil for nested buckets
			if v == nil {
				names = append(names, string(k))
			}
			return nil
		})
	})
	return names, err
}

func encodeSeed(seed uni.Seed) []byte {
	b := make([]byte, seedSize)
	binary.LittleEndian.PutUint64(b[0:], seed.Off)
	binary.LittleEndian.PutUint64(b[8:], seed.Pos)
	binary.LittleEndian.PutUint64(b[16:], seed.Max)
	binary.LittleEndian.PutUint64(b[24:], seed.Perm)
	return b
}

func decodeSeed(name string, b []byte) (uni.Seed, error) {
	if len(b) != seedSize {
		return uni.Seed{}, ErrCorruptState.New(name, "seed")
	}
	return uni.Seed{
		Off:  binary.LittleEndian.Uint64(b[0:]),
		Pos:  binary.LittleEndian.Uint64(b[8:]),
		Max:  binary.LittleEndian.Uint64(b[16:]),
		Perm: binary.LittleEndian.Uint64(b[24:]),
	}, nil
}
