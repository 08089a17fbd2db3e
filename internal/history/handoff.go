package history

import (
	"context"
	"encoding/json"

	"github.com/abhisek/mathdrill/internal/problemgen"
)

// StageWrongSet saves triples as the question source for the next
// session. It replaces any set already staged.
func (s *Store) StageWrongSet(ctx context.Context, triples []problemgen.Triple) error {
	if len(triples) == 0 {
		return s.kv.Delete(ctx, KeyWrongSet)
	}
	return s.saveJSON(ctx, KeyWrongSet, triples)
}

// HasWrongSet reports whether a set is staged.
func (s *Store) HasWrongSet(ctx context.Context) (bool, error) {
	raw, err := s.kv.Get(ctx, KeyWrongSet)
	return raw != nil, err
}

// TakeWrongSet returns the staged set and deletes it, so it feeds exactly
// one session.
func (s *Store) TakeWrongSet(ctx context.Context) ([]problemgen.Triple, error) {
	triples, err := s.loadTriples(ctx, KeyWrongSet)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Delete(ctx, KeyWrongSet); err != nil {
		return nil, err
	}
	return triples, nil
}

// AddCustom appends triples to the saved custom set.
func (s *Store) AddCustom(ctx context.Context, triples ...problemgen.Triple) error {
	existing, err := s.loadTriples(ctx, KeyCustom)
	if err != nil {
		return err
	}
	return s.saveJSON(ctx, KeyCustom, append(existing, triples...))
}

// CustomSet returns the saved custom set in insertion order.
func (s *Store) CustomSet(ctx context.Context) ([]problemgen.Triple, error) {
	return s.loadTriples(ctx, KeyCustom)
}

// ClearCustom deletes the custom set.
func (s *Store) ClearCustom(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyCustom)
}

func (s *Store) loadTriples(ctx context.Context, key string) ([]problemgen.Triple, error) {
	raws, err := s.loadArray(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]problemgen.Triple, 0, len(raws))
	for i, raw := range raws {
		if err := tripleSchema.check(raw); err != nil {
			s.log.Warn().Err(err).Str("key", key).Int("index", i).Msg("skipping invalid question")
			continue
		}
		var t problemgen.Triple
		if err := json.Unmarshal(raw, &t); err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
