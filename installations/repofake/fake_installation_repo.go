package installationrepofake

import (
	"context"
	"sync"

	"github.com/guilddash/guilddash/installations"
)

var _ installations.Repo = (*FakeInstallationRepo)(nil)

type FakeInstallationRepo struct {
	records map[string]*installations.Installation
	lock    sync.RWMutex
}

func NewFakeInstallationRepo() *FakeInstallationRepo {
	return &FakeInstallationRepo{
		records: make(map[string]*installations.Installation),
	}
}

func (ir *FakeInstallationRepo) Upsert(_ context.Context, installation *installations.Installation) error {
	ir.lock.Lock()
	defer ir.lock.Unlock()

	// Whole-record replacement: fields from two concurrent installs are
	// never interleaved.
	stored := *installation
	ir.records[stored.GuildID] = &stored
	return nil
}

func (ir *FakeInstallationRepo) Get(_ context.Context, guildID string) (*installations.Installation, error) {
	ir.lock.RLock()
	defer ir.lock.RUnlock()

	record, ok := ir.records[guildID]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

// Len reports the number of records, for assertions in tests.
func (ir *FakeInstallationRepo) Len() int {
	ir.lock.RLock()
	defer ir.lock.RUnlock()
	return len(ir.records)
}
