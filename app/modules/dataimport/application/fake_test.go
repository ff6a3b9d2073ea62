package importservice

import (
	"context"
	"sync"

	fightertypes "github.com/cagepicks/cagepicks-backend/types/fighter"
	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
)

// fakeFighterStore is an in-memory FighterStore with per-mode error
// injection for commit-failure tests.
type fakeFighterStore struct {
	mu       sync.Mutex
	refs     []fightertypes.FighterRef
	added    []*fightertypes.Fighter
	replaced []*fightertypes.Fighter

	listErr    error
	addErr     error
	replaceErr error
}

func (f *fakeFighterStore) List(context.Context) ([]fightertypes.FighterRef, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.refs, nil
}

func (f *fakeFighterStore) AddMany(_ context.Context, fighters []*fightertypes.Fighter, mode StoreMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if mode == StoreModeReplace {
		if f.replaceErr != nil {
			return f.replaceErr
		}
		f.replaced = append(f.replaced, fighters...)
		return nil
	}
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, fighters...)
	return nil
}

type fakeFightStore struct {
	mu       sync.Mutex
	refs     []fighttypes.FightRef
	added    []*fighttypes.FightRecord
	replaced []*fighttypes.FightRecord

	listErr    error
	addErr     error
	replaceErr error
}

func (f *fakeFightStore) List(context.Context) ([]fighttypes.FightRef, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.refs, nil
}

func (f *fakeFightStore) AddMany(_ context.Context, records []*fighttypes.FightRecord, mode StoreMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if mode == StoreModeReplace {
		if f.replaceErr != nil {
			return f.replaceErr
		}
		f.replaced = append(f.replaced, records...)
		return nil
	}
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, records...)
	return nil
}
