package store

import (
	"encoding/binary"

	bolt "go.etcd.io/bbolt"
)

func init() {
	initDB["initialize memo statistics table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketMemo))
		return err
	}
}

// AddRuleHits adds memo hit counts, keyed by rule name, to the accumulated
// totals. Zero counts are ignored.
func (s *dbStore) AddRuleHits(hits map[string]int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketMemo))
		for rule, n := range hits {
			if n == 0 {
				continue
			}
			k := []byte(rule)
			total := uint64(n)
			if v := b.Get(k); len(v) == 8 {
				total += binary.BigEndian.Uint64(v)
			}
			if err := b.Put(k, marshalSeq(total)); err != nil {
				return err
			}
		}
		return nil
	})
}

// RuleHits returns the accumulated memo hit counts, keyed by rule name.
func (s *dbStore) RuleHits() (map[string]int, error) {
	hits := make(map[string]int)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketMemo)).ForEach(func(k, v []byte) error {
			if len(v) == 8 {
				hits[string(k)] = int(binary.BigEndian.Uint64(v))
			}
			return nil
		})
	})
	return hits, err
}

// ClearRuleHits removes all accumulated memo hit counts.
func (s *dbStore) ClearRuleHits() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketMemo)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketMemo))
		return err
	})
}
