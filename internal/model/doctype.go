// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// DocType is the document-type tag derived from a filename.
type DocType string

// Document types, closed set.
const (
	DocMaintenanceContract DocType = "maintenance_contract"
	DocOtherContract       DocType = "other_contract"
	DocM365Contract        DocType = "m365_contract"
	DocAnnex               DocType = "annex"
	DocAttachment          DocType = "attachment"
	DocPriceList           DocType = "price_list"
	DocOffer               DocType = "offer"
	DocNDA                 DocType = "nda"
	DocGDPR                DocType = "gdpr"
	DocTermination         DocType = "termination"
	DocIrrelevant          DocType = "irrelevant"
)

// AllDocTypes lists every document type in declaration order.
var AllDocTypes = []DocType{
	DocMaintenanceContract,
	DocOtherContract,
	DocM365Contract,
	DocAnnex,
	DocAttachment,
	DocPriceList,
	DocOffer,
	DocNDA,
	DocGDPR,
	DocTermination,
	DocIrrelevant,
}

// Valid reports whether d is one of the known document types.
func (d DocType) Valid() bool {
	for _, known := range AllDocTypes {
		if d == known {
			return true
		}
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (d DocType) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid document type %q", string(d))
	}
	return []byte(d), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DocType) UnmarshalText(text []byte) error {
	v := DocType(text)
	if !v.Valid() {
		return fmt.Errorf("invalid document type %q", string(text))
	}
	*d = v
	return nil
}

// ParseDocType converts a user-supplied string into a DocType.
func ParseDocType(s string) (DocType, error) {
	var d DocType
	if err := d.UnmarshalText([]byte(s)); err != nil {
		return "", err
	}
	return d, nil
}
