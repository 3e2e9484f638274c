package elfmeta

import (
	"errors"
	"fmt"
	"os"

	elfreader "github.com/yalue/elf_reader"
)

var errSectionNotFound = errors.New("section not found")

// POSTFORM_VERSION is the host's compile-time supported wire version.
// Firmware built against a different revision of the interning toolchain
// trips KindMismatchedVersions unless version checking is disabled.
const POSTFORM_VERSION = "1.1.0"

const (
	sectionVersion            = ".postform_version"
	sectionInternedStrings    = ".interned_strings"
	sectionConfig             = ".postform_config"
	sectionPlatformDescriptor = ".postform_platform_descriptors"
)

// ElfMetadata is the aggregate root recovered from one firmware ELF: the
// timestamp tick frequency, the interned string table, the severity
// ranges, and (legacy dialect only) the platform descriptor. It is
// immutable and safe to share by reference across an entire decode run.
type ElfMetadata struct {
	TimestampFreq float64
	Strings       InternedStringTable
	Ranges        []SeverityRange
	Platform      *PlatformDescriptor // nil selects the LEB128 dialect

	// MainAddress is the firmware entry point's address, for the probe
	// collaborator's breakpoint-at-main flashing step. Zero when the
	// symbol is absent.
	MainAddress uint64
	// RTTAddress is the _SEGGER_RTT control block's address. Zero when
	// the symbol is absent; the RTT attach falls back to a signature
	// scan of target RAM.
	RTTAddress uint64

	// Warnings collects non-fatal findings from the load (severity
	// levels whose symbol pair was missing). Callers print these.
	Warnings []string
}

// LoadOptions configures ElfMetadata construction.
type LoadOptions struct {
	// DisableVersionCheck skips the .postform_version comparison.
	DisableVersionCheck bool
}

// elfFile is the subset of github.com/yalue/elf_reader's ELF32File API this
// package depends on, named here so tests can substitute a fake without
// constructing a real ELF image.
type elfFile interface {
	GetSectionContent(index uint16) ([]byte, error)
	GetSectionName(index uint16) (string, error)
	NumSections() uint16
	GetSymbolTable(index uint16) ([]elfreader.ELF32Symbol, []string, error)
	IsSymbolTable(index uint16) bool
	NumSymbolTables() uint16
}

// Load reads path, validates the Postform sections and returns the
// recovered metadata. The loader never mutates the ELF file.
func Load(path string, opts LoadOptions) (*ElfMetadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapIO(err)
	}

	parsed, err := elfreader.ParseELF32File(raw)
	if err != nil {
		return nil, wrapElfParse(err)
	}

	return load(elf32Adapter{parsed}, opts)
}

func load(f elfFile, opts LoadOptions) (*ElfMetadata, error) {
	versionData, err := sectionByName(f, sectionVersion)
	if err != nil {
		return nil, errMissingPostformVersion()
	}
	if !opts.DisableVersionCheck {
		fwVersion := nulTerminatedASCII(versionData)
		if fwVersion != POSTFORM_VERSION {
			return nil, errMismatchedVersions(fwVersion, POSTFORM_VERSION)
		}
	}

	internedData, err := sectionByName(f, sectionInternedStrings)
	if err != nil {
		return nil, errMissingInternedStrings()
	}

	configData, err := sectionByName(f, sectionConfig)
	if err != nil {
		return nil, errMissingPostformConfiguration()
	}
	if len(configData) < 4 {
		return nil, &Error{Kind: KindElfParse, Message: "truncated postform config section"}
	}
	timestampFreq := float64(leU32(configData[:4]))

	var platform *PlatformDescriptor
	if platformData, perr := sectionByName(f, sectionPlatformDescriptor); perr == nil {
		desc, derr := parsePlatformDescriptor(platformData)
		if derr != nil {
			return nil, derr
		}
		platform = &desc
	}

	var ranges []SeverityRange
	var warnings []string
	for _, level := range orderedLevels {
		start, end, found := findLevelSymbols(f, level)
		if !found {
			warnings = append(warnings, fmt.Sprintf("Level %s not found in elf file", level))
			continue
		}
		ranges = append(ranges, SeverityRange{Level: level, Start: start, End: end})
	}

	mainAddr, _ := findSymbol(f, "main")
	rttAddr, _ := findSymbol(f, "_SEGGER_RTT")

	return &ElfMetadata{
		TimestampFreq: timestampFreq,
		Strings:       newInternedStringTable(internedData),
		Ranges:        ranges,
		Platform:      platform,
		MainAddress:   mainAddr,
		RTTAddress:    rttAddr,
		Warnings:      warnings,
	}, nil
}

func nulTerminatedASCII(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func sectionByName(f elfFile, name string) ([]byte, error) {
	n := f.NumSections()
	for i := uint16(0); i < n; i++ {
		sectionName, err := f.GetSectionName(i)
		if err != nil {
			continue
		}
		if sectionName == name {
			return f.GetSectionContent(i)
		}
	}
	return nil, errSectionNotFound
}

// findSymbol scans every symbol table for name and returns its address.
func findSymbol(f elfFile, name string) (uint64, bool) {
	n := f.NumSymbolTables()
	for i := uint16(0); i < n; i++ {
		if !f.IsSymbolTable(i) {
			continue
		}
		symbols, names, err := f.GetSymbolTable(i)
		if err != nil {
			continue
		}
		for idx, symName := range names {
			if symName == name {
				return uint64(symbols[idx].Value), true
			}
		}
	}
	return 0, false
}

// findLevelSymbols scans every symbol table in the ELF file for the
// __Interned<Level>Start/End symbol pair. A missing pair is reported as
// "not found" rather than an error: the caller warns and skips that
// level, since firmware is routinely built with some levels compiled
// out.
func findLevelSymbols(f elfFile, level Severity) (start, end uint64, found bool) {
	startName := level.startSymbol()
	endName := level.endSymbol()

	var haveStart, haveEnd bool
	n := f.NumSymbolTables()
	for i := uint16(0); i < n; i++ {
		if !f.IsSymbolTable(i) {
			continue
		}
		symbols, names, err := f.GetSymbolTable(i)
		if err != nil {
			continue
		}
		for idx, name := range names {
			switch name {
			case startName:
				start = uint64(symbols[idx].Value)
				haveStart = true
			case endName:
				end = uint64(symbols[idx].Value)
				haveEnd = true
			}
		}
	}
	return start, end, haveStart && haveEnd
}
