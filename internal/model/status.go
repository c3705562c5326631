package model

import "fmt"

// FileStatus is the lifecycle status of a scanned file.
type FileStatus string

// File statuses. Only FileSelected participates in chain building.
const (
	FileSelected         FileStatus = "selected"
	FileDuplicateSkipped FileStatus = "duplicate_skipped"
	FileIrrelevant       FileStatus = "irrelevant"
	FileEmpty            FileStatus = "empty"
	FileUnparseable      FileStatus = "unparseable"
)

// Valid reports whether s is a known file status.
func (s FileStatus) Valid() bool {
	switch s {
	case FileSelected, FileDuplicateSkipped, FileIrrelevant, FileEmpty, FileUnparseable:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (s FileStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid file status %q", string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *FileStatus) UnmarshalText(text []byte) error {
	v := FileStatus(text)
	if !v.Valid() {
		return fmt.Errorf("invalid file status %q", string(text))
	}
	*s = v
	return nil
}

// ClientStatus is the overall status of a client folder.
type ClientStatus string

// Client statuses.
const (
	ClientOK         ClientStatus = "ok"
	ClientEmpty      ClientStatus = "empty"
	ClientNoContract ClientStatus = "no_contract"
	ClientTerminated ClientStatus = "terminated"
	ClientFlagged    ClientStatus = "flagged"
)

// AllClientStatuses lists client statuses in display order.
var AllClientStatuses = []ClientStatus{
	ClientOK,
	ClientEmpty,
	ClientNoContract,
	ClientTerminated,
	ClientFlagged,
}

// Valid reports whether s is a known client status.
func (s ClientStatus) Valid() bool {
	for _, known := range AllClientStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (s ClientStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid client status %q", string(s))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ClientStatus) UnmarshalText(text []byte) error {
	v := ClientStatus(text)
	if !v.Valid() {
		return fmt.Errorf("invalid client status %q", string(text))
	}
	*s = v
	return nil
}

// Client flags explaining anomalies.
const (
	FlagHasTermination        = "has_raskid"
	FlagFilesInSubdirectories = "files_in_subdirectories"
	FlagVirtualFolder         = "virtual_folder_from_root_file"
	FlagNoMaintenanceContract = "no_maintenance_contract"
	FlagNoParseableFiles      = "no_parseable_files"
	FlagScanError             = "scan_error"
)
