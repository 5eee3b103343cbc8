package memory_test

import (
	"testing"

	"github.com/aretw0/mathpad/pkg/adapters/memory"
	"github.com/aretw0/mathpad/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunDocumentStoreContract(t, store)
}
