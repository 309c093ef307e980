package player

import (
	"fmt"
	"strings"
)

// Model selects the player whose control protocol is emulated.
type Model int

const (
	ModelPR7820 Model = iota
	ModelPR8210
	ModelLDV1000
	ModelLDP1450
	Model22VP932
)

var modelNames = map[Model]string{
	ModelPR7820:  "pr7820",
	ModelPR8210:  "pr8210",
	ModelLDV1000: "ldv1000",
	ModelLDP1450: "ldp1450",
	Model22VP932: "22vp932",
}

func (m Model) String() string {
	if name, ok := modelNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// ParseModel accepts the names printed by String, case-insensitively
// and with optional dashes ("LD-V1000").
func ParseModel(name string) (Model, error) {
	key := strings.ToLower(strings.ReplaceAll(name, "-", ""))
	for m, n := range modelNames {
		if n == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown player model %q", name)
}

// Models lists the supported players in a stable order.
func Models() []Model {
	return []Model{ModelPR7820, ModelPR8210, ModelLDV1000, ModelLDP1450, Model22VP932}
}
