package cmd

import (
	"fmt"
	"os"

	"github.com/Javier-varez/Postform/internal/elfmeta"
)

// loadMetadata reads the firmware ELF's Postform metadata and reports the
// loader's non-fatal findings (severity levels the firmware was built
// without) before handing the metadata to a decode loop.
func loadMetadata(path string, disableVersionCheck bool) (*elfmeta.ElfMetadata, error) {
	meta, err := elfmeta.Load(path, elfmeta.LoadOptions{
		DisableVersionCheck: disableVersionCheck,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range meta.Warnings {
		fmt.Fprintln(os.Stderr, "Warning: "+w)
	}
	return meta, nil
}
