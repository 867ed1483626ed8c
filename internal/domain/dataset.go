package domain

import (
	"encoding/json"
	"fmt"
	"io"
)

// Dataset is a snapshot of stream entities and the relations notifications are fanned out
// over. Relation maps are keyed by activity, group or person id and list person ids in
// notification order. Stores accept it to seed development and test data.
type Dataset struct {
	People              []Person          `json:"people"`
	Groups              []Group           `json:"groups"`
	Activities          []Activity        `json:"activities"`
	Comments            []Comment         `json:"comments"`
	Apps                []App             `json:"apps"`
	Coordinators        map[int64][]int64 `json:"coordinators"`
	Members             map[int64][]int64 `json:"members"`
	UnrestrictedMembers map[int64][]int64 `json:"unrestrictedMembers"`
	Subscribers         map[int64][]int64 `json:"subscribers"`
	Savers              map[int64][]int64 `json:"savers"`
	Admins              []int64           `json:"admins"`
}

// DecodeDataset reads one JSON dataset from r.
func DecodeDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}
