package decoder

import (
	"testing"

	"github.com/Javier-varez/Postform/internal/elfmeta"
)

func mustInternedStrings(t *testing.T, data string) elfmeta.InternedStringTable {
	t.Helper()
	return elfmeta.NewInternedStringTable([]byte(data))
}
