package memory_test

import (
	"testing"

	"github.com/matzehuels/sprintboard/pkg/store"
	"github.com/matzehuels/sprintboard/pkg/store/memory"
	"github.com/matzehuels/sprintboard/pkg/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return memory.New(memory.StoreConfig{})
	})
}
