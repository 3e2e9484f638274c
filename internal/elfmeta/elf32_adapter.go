package elfmeta

import elfreader "github.com/yalue/elf_reader"

// elf32Adapter adapts github.com/yalue/elf_reader's index-based, low-level
// ELF32File API to the small name-based elfFile interface this package
// depends on. Keeping this translation in one small file means a swap to a
// different ELF reader only touches this adapter.
type elf32Adapter struct {
	f *elfreader.ELF32File
}

func (a elf32Adapter) GetSectionContent(index uint16) ([]byte, error) {
	return a.f.GetSectionContent(index)
}

func (a elf32Adapter) GetSectionName(index uint16) (string, error) {
	return a.f.GetSectionName(index)
}

func (a elf32Adapter) NumSections() uint16 {
	return uint16(len(a.f.Sections))
}

func (a elf32Adapter) GetSymbolTable(index uint16) ([]elfreader.ELF32Symbol, []string, error) {
	return a.f.GetSymbolTable(index)
}

func (a elf32Adapter) IsSymbolTable(index uint16) bool {
	return a.f.IsSymbolTable(index)
}

func (a elf32Adapter) NumSymbolTables() uint16 {
	return uint16(len(a.f.Sections))
}
