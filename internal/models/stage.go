package models

import "fmt"

// Stage is a product's position in the ledger contract's lifecycle.
// The numbering mirrors the contract's enum.
type Stage uint8

const (
	StageCreated Stage = iota
	StageRawMaterialSupply
	StageManufacturing
	StageDistribution
	StageRetail
	StageSold
)

// StagePurchasable is the only stage at which a product can be bought.
const StagePurchasable = StageRetail

var stageLabels = [...]string{
	StageCreated:           "Created",
	StageRawMaterialSupply: "Raw Material Supply",
	StageManufacturing:     "Manufacturing",
	StageDistribution:      "Distribution",
	StageRetail:            "Retail",
	StageSold:              "Sold",
}

// Label returns the display name of the stage.
func (s Stage) Label() string {
	if int(s) < len(stageLabels) {
		return stageLabels[s]
	}
	return fmt.Sprintf("Unknown (%d)", uint8(s))
}

func (s Stage) String() string { return s.Label() }

// Stages lists every known stage in lifecycle order.
func Stages() []Stage {
	out := make([]Stage, len(stageLabels))
	for i := range stageLabels {
		out[i] = Stage(i)
	}
	return out
}
