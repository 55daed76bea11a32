package models

import "fmt"

// Unit is the unit of measure a supply item is counted in.
type Unit string

const (
	UnitIndividual Unit = "individual"
	UnitBox        Unit = "box"
	UnitCase       Unit = "case"
	UnitPack       Unit = "pack"
	UnitReam       Unit = "ream"
	UnitSet        Unit = "set"
)

var Units = []Unit{UnitIndividual, UnitBox, UnitCase, UnitPack, UnitReam, UnitSet}

func ParseUnit(s string) (Unit, error) {
	for _, u := range Units {
		if string(u) == s {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// SupplyItem is a trackable inventory line in "supply_items".
type SupplyItem struct {
	ID                string `bson:"_id" json:"id"`
	Name              string `bson:"name" json:"name"`
	Unit              Unit   `bson:"unit" json:"unit"`
	AvailableQuantity int    `bson:"available_quantity" json:"availableQuantity"`
}
