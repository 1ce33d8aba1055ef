package checkpoint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
	"time"
)

const bucketName = "positions"

var errClosed = errors.New("checkpoint store is closed")

// Store persists the last fully applied source position per replication slot.
type Store struct {
	db   *bolt.DB
	slot []byte
}

type Config struct {
	// Path is the bbolt file.
	Path string
	// Slot names the position inside the file.
	Slot string
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Path == "" {
		errGrp = append(errGrp, errors.New("path required"))
	}
	if c.Slot == "" {
		errGrp = append(errGrp, errors.New("slot required"))
	}
	return errors.Join(errGrp...)
}

func New(cfg *Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	db, err := bolt.Open(cfg.Path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create checkpoint bucket: %w", err)
	}

	return &Store{db: db, slot: []byte(cfg.Slot)}, nil
}

// Load returns the stored position, or 0 when nothing was saved yet.
func (s *Store) Load() (uint64, error) {
	if s.db == nil {
		return 0, errClosed
	}

	var pos uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get(s.slot)
		if v == nil {
			return nil
		}
		if len(v) != 8 {
			return fmt.Errorf("corrupt checkpoint for %s: %d bytes", s.slot, len(v))
		}
		pos = binary.BigEndian.Uint64(v)
		return nil
	})
	return pos, err
}

// Save stores pos. Positions never move backwards.
func (s *Store) Save(pos uint64) error {
	if s.db == nil {
		return errClosed
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if v := b.Get(s.slot); len(v) == 8 && binary.BigEndian.Uint64(v) >= pos {
			return nil
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, pos)
		return b.Put(s.slot, buf)
	})
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}
	log.Debug().Str("slot", string(s.slot)).Msg("checkpoint store closed")
	return nil
}

// Start does nothing; the file is opened by New.
func (s *Store) Start() error {
	return nil
}

// Stop closes the file.
func (s *Store) Stop() error {
	return s.Close()
}

func (s *Store) Name() string {
	return "Checkpoint Store"
}
