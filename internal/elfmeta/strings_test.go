package elfmeta

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternedStringTableCallSiteString(t *testing.T) {
	// The second record starts right after the first one's NUL
	// terminator, at offset 24.
	data := []byte("driver.c@10@starting up\x00main.c@99@tick %d, armed %k\x00")
	table := newInternedStringTable(data)

	file, line, format, err := table.CallSiteString(0)
	require.NoError(t, err)
	require.Equal(t, "driver.c", file)
	require.Equal(t, uint32(10), line)
	require.Equal(t, "starting up", format)

	secondOffset := len("driver.c@10@starting up\x00")
	file, line, format, err = table.CallSiteString(secondOffset)
	require.NoError(t, err)
	require.Equal(t, "main.c", file)
	require.Equal(t, uint32(99), line)
	require.Equal(t, "tick %d, armed %k", format)
}

func TestInternedStringTableLookupAtNonZeroOffset(t *testing.T) {
	data := []byte("test/my_file.cpp@1234@This is my log message\x00" +
		"test/my_file2.cpp@12343@This is my second log message\x00")
	table := newInternedStringTable(data)

	file, line, format, err := table.CallSiteString(45)
	require.NoError(t, err)
	require.Equal(t, "test/my_file2.cpp", file)
	require.Equal(t, uint32(12343), line)
	require.Equal(t, "This is my second log message", format)
}

func TestInternedStringTableUserString(t *testing.T) {
	table := newInternedStringTable([]byte("armed\x00disarmed\x00"))

	s, err := table.UserString(0)
	require.NoError(t, err)
	require.Equal(t, "armed", s)

	s, err = table.UserString(len("armed\x00"))
	require.NoError(t, err)
	require.Equal(t, "disarmed", s)
}

func TestInternedStringTableRejectsMissingNulTerminator(t *testing.T) {
	table := newInternedStringTable([]byte("no terminator"))
	_, err := table.UserString(0)
	require.Error(t, err)
}

func TestInternedStringTableRejectsMalformedCallSite(t *testing.T) {
	table := newInternedStringTable([]byte("missing-at-signs\x00"))
	_, _, _, err := table.CallSiteString(0)
	require.Error(t, err)
	var typed *Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, KindInvalidFormatString, typed.Kind)
}
