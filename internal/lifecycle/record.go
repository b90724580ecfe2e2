package lifecycle

import (
	"strings"
	"time"

	"github.com/fystack/cip68-minter/pkg/infra"
)

const recordKeyPrefix = "nft"

// MintRecord remembers the issuance context of a minted token so later
// burn/update flows can pre-fill it. Best-effort: absence only degrades
// convenience.
type MintRecord struct {
	TokenName string    `json:"token_name"`
	PolicyID  string    `json:"policy_id"`
	TxHash    string    `json:"tx_hash"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordStore keeps mint records in the local KVStore, keyed by token
// name.
type RecordStore struct {
	kv infra.KVStore
}

func NewRecordStore(kv infra.KVStore) *RecordStore {
	return &RecordStore{kv: kv}
}

func recordKey(tokenName string) string {
	return recordKeyPrefix + "/" + tokenName
}

func (s *RecordStore) Put(record MintRecord) error {
	return s.kv.SetAny(recordKey(record.TokenName), record)
}

func (s *RecordStore) Get(tokenName string) (*MintRecord, bool, error) {
	var record MintRecord
	found, err := s.kv.GetAny(recordKey(tokenName), &record)
	if err != nil || !found {
		return nil, false, err
	}
	return &record, true, nil
}

func (s *RecordStore) Delete(tokenName string) error {
	return s.kv.Delete(recordKey(tokenName))
}

func (s *RecordStore) List() ([]MintRecord, error) {
	pairs, err := s.kv.List(recordKeyPrefix + "/")
	if err != nil {
		return nil, err
	}

	records := make([]MintRecord, 0, len(pairs))
	for _, pair := range pairs {
		// List returns full keys; re-read through the codec path.
		tokenName := pair.Key[strings.LastIndex(pair.Key, "/")+1:]
		record, found, err := s.Get(tokenName)
		if err != nil || !found {
			continue
		}
		records = append(records, *record)
	}
	return records, nil
}
