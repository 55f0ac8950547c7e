package storage

import "github.com/solarlabs-org/bundle-relayer/internal/relay"

// DummyStorage is used when submission history persistence is disabled.
type DummyStorage struct{}

func NewDummyStorage() *DummyStorage {
	return &DummyStorage{}
}

func (s *DummyStorage) SetBundleStatus(relay.BundleInfo) error {
	return nil
}

func (s *DummyStorage) GetBundle(string) (*relay.BundleInfo, bool, error) {
	return nil, false, nil
}

func (s *DummyStorage) GetAllPendingBundles() ([]*relay.BundleInfo, error) {
	return nil, nil
}

func (s *DummyStorage) GetAllFailedBundles() ([]*relay.BundleInfo, error) {
	return nil, nil
}

func (s *DummyStorage) Close() error {
	return nil
}
