package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/solarlabs-org/bundle-relayer/internal/relay"
)

const BundlePrefix = "bundles"
const PendingBundlePrefix = "pending_bundles"
const FailedBundlePrefix = "failed_bundles"

// LevelDBStorage keeps the submission history: a main record per bundle id
// plus two prefix-scanned queues, one for bundles awaiting confirmation
// and one for bundles that failed to submit or confirm.
type LevelDBStorage struct {
	sync.Mutex
	db *leveldb.DB
}

func NewLevelDBStorage(path string) (*LevelDBStorage, error) {
	database, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}

	return &LevelDBStorage{db: database}, nil
}

// SetBundleStatus upserts the bundle record and maintains the pending and
// failed queues:
// 1) relay accepted the bundle, confirmation pending - relay.Submitted
// 2) a confirmation source reported durable inclusion - relay.Confirmed
// 3) the confirmation wait timed out - relay.NotConfirmed
// 4) all submission attempts failed - relay.ErrorOnSubmit
func (s *LevelDBStorage) SetBundleStatus(info relay.BundleInfo) error {
	s.Lock()
	defer s.Unlock()

	t, err := s.db.OpenTransaction()
	if err != nil {
		return fmt.Errorf("failed to open leveldb transaction: %w", err)
	}
	defer t.Discard()

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal BundleInfo: %w", err)
	}

	key := info.BundleID
	if key == "" {
		// bundles rejected everywhere never get a relay id
		key = info.FeeSignature
	}

	if err := t.Put(constructKey(BundlePrefix, key), data, nil); err != nil {
		return fmt.Errorf("failed to set bundle info: %w", err)
	}

	switch info.Status {
	case relay.Submitted:
		if err := t.Put(constructKey(PendingBundlePrefix, key), data, nil); err != nil {
			return fmt.Errorf("failed to save bundle into pending queue: %w", err)
		}
	case relay.Confirmed:
		if err := t.Delete(constructKey(PendingBundlePrefix, key), nil); err != nil {
			return fmt.Errorf("failed to remove bundle from pending queue: %w", err)
		}
	case relay.NotConfirmed, relay.ErrorOnSubmit:
		if err := t.Delete(constructKey(PendingBundlePrefix, key), nil); err != nil {
			return fmt.Errorf("failed to remove bundle from pending queue: %w", err)
		}
		if err := t.Put(constructKey(FailedBundlePrefix, key), data, nil); err != nil {
			return fmt.Errorf("failed to save bundle into failed queue: %w", err)
		}
	}

	return t.Commit()
}

// GetBundle returns the main record for bundleID.
func (s *LevelDBStorage) GetBundle(bundleID string) (*relay.BundleInfo, bool, error) {
	s.Lock()
	defer s.Unlock()

	data, err := s.db.Get(constructKey(BundlePrefix, bundleID), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed getting data from db: %w", err)
	}

	var info relay.BundleInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal data into BundleInfo: %w", err)
	}

	return &info, true, nil
}

func (s *LevelDBStorage) GetAllPendingBundles() ([]*relay.BundleInfo, error) {
	return s.scanPrefix(PendingBundlePrefix)
}

func (s *LevelDBStorage) GetAllFailedBundles() ([]*relay.BundleInfo, error) {
	return s.scanPrefix(FailedBundlePrefix)
}

func (s *LevelDBStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close db: %w", err)
	}
	return nil
}

func (s *LevelDBStorage) scanPrefix(prefix string) ([]*relay.BundleInfo, error) {
	s.Lock()
	defer s.Unlock()

	iterator := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iterator.Release()

	var bundles []*relay.BundleInfo
	for iterator.Next() {
		var info relay.BundleInfo
		if err := json.Unmarshal(iterator.Value(), &info); err != nil {
			return nil, fmt.Errorf("failed to unmarshal data into BundleInfo: %w", err)
		}
		bundles = append(bundles, &info)
	}
	return bundles, nil
}

func constructKey(prefix, key string) []byte {
	return append([]byte(prefix), key...)
}
