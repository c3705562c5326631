package model

import "time"

// FileEntry is one physical file under a client folder.
type FileEntry struct {
	ModifiedAt     *time.Time `json:"modified_date,omitempty"`
	Filename       string     `json:"filename"`
	RelativePath   string     `json:"relative_path"` // relative to the working copy, slash separated
	Extension      string     `json:"extension"`
	DocType        DocType    `json:"doc_type"`
	Status         FileStatus `json:"status"`
	ContractNumber string     `json:"contract_number,omitempty"` // e.g. "U-21-15"
	DuplicateOf    string     `json:"duplicate_of,omitempty"`    // relative path of the kept file
	Flags          []string   `json:"flags,omitempty"`
	SizeBytes      int64      `json:"size_bytes"`
}

// IsSelected reports whether the file participates in chain building.
func (f FileEntry) IsSelected() bool {
	return f.Status == FileSelected
}

// DocumentChain is the ordered contract → annex lineage of a client.
type DocumentChain struct {
	MainContract        string   `json:"main_contract,omitempty"`
	LatestValidDocument string   `json:"latest_valid_document,omitempty"`
	Annexes             []string `json:"annexes"`
}

// Roles a file can play in a document chain.
const (
	RoleMainContract = "main_contract"
	RoleAnnex        = "annex"
	RoleLatestValid  = "latest_valid"
)

// Roles returns the chain roles of the file at path, in the order main
// contract, annex, latest valid document.
func (c DocumentChain) Roles(path string) []string {
	var roles []string
	if path == "" {
		return roles
	}
	if c.MainContract == path {
		roles = append(roles, RoleMainContract)
	}
	for _, a := range c.Annexes {
		if a == path {
			roles = append(roles, RoleAnnex)
			break
		}
	}
	if c.LatestValidDocument == path {
		roles = append(roles, RoleLatestValid)
	}
	return roles
}

// ClientEntry is one top-level client folder.
type ClientEntry struct {
	ClientName    string        `json:"client_name"`
	FolderName    string        `json:"folder_name"`
	FolderPath    string        `json:"folder_path"`
	Status        ClientStatus  `json:"status"`
	Files         []FileEntry   `json:"files"`
	Flags         []string      `json:"flags"`
	DocumentChain DocumentChain `json:"document_chain"`
}

// SelectedFiles returns the files with status selected.
func (c ClientEntry) SelectedFiles() []FileEntry {
	selected := make([]FileEntry, 0, len(c.Files))
	for _, f := range c.Files {
		if f.IsSelected() {
			selected = append(selected, f)
		}
	}
	return selected
}

// HasSelected reports whether any selected file has the given type.
func (c ClientEntry) HasSelected(doc DocType) bool {
	for _, f := range c.Files {
		if f.IsSelected() && f.DocType == doc {
			return true
		}
	}
	return false
}

// HasMaintenanceContract reports whether a maintenance contract was selected.
func (c ClientEntry) HasMaintenanceContract() bool {
	return c.HasSelected(DocMaintenanceContract)
}

// HasAnnexes reports whether at least one annex was selected.
func (c ClientEntry) HasAnnexes() bool {
	return c.HasSelected(DocAnnex)
}

// HasFlag reports whether the client carries flag.
func (c ClientEntry) HasFlag(flag string) bool {
	for _, f := range c.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Inventory is the full file inventory produced by the setup phase.
type Inventory struct {
	CreatedAt   time.Time     `json:"created_at"`
	SourcePath  string        `json:"source_path"`
	WorkingPath string        `json:"working_path"`
	Clients     []ClientEntry `json:"clients"`
}

// TotalClients returns the number of clients.
func (inv *Inventory) TotalClients() int {
	return len(inv.Clients)
}

// ClientsWithContracts counts clients that have a selected maintenance contract.
func (inv *Inventory) ClientsWithContracts() int {
	n := 0
	for _, c := range inv.Clients {
		if c.HasMaintenanceContract() {
			n++
		}
	}
	return n
}

// ClientsWithAnnexes counts clients that have at least one selected annex.
func (inv *Inventory) ClientsWithAnnexes() int {
	n := 0
	for _, c := range inv.Clients {
		if c.HasAnnexes() {
			n++
		}
	}
	return n
}

// FlaggedClients returns clients that carry flags or a non-ok status.
func (inv *Inventory) FlaggedClients() []ClientEntry {
	var flagged []ClientEntry
	for _, c := range inv.Clients {
		if len(c.Flags) > 0 || c.Status != ClientOK {
			flagged = append(flagged, c)
		}
	}
	return flagged
}

// StatusCounts returns the number of clients per status.
func (inv *Inventory) StatusCounts() map[ClientStatus]int {
	counts := make(map[ClientStatus]int, len(AllClientStatuses))
	for _, c := range inv.Clients {
		counts[c.Status]++
	}
	return counts
}

// FindClient returns the client with the given folder name.
func (inv *Inventory) FindClient(folderName string) (ClientEntry, bool) {
	for _, c := range inv.Clients {
		if c.FolderName == folderName {
			return c, true
		}
	}
	return ClientEntry{}, false
}
