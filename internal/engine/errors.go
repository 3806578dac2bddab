package engine

import (
	"fmt"
	"strings"
)

// ConfigurationError is fatal and load-time only: the affected catalog
// version or program is refused entirely, no partial graph or tree is
// served. Normal domain conditions (unmet prerequisites, missing grades,
// empty data) are values, never errors.
type ConfigurationError struct {
	Kind   string
	Cycle  []string
	Detail string
}

const (
	ConfigPrerequisiteCycle = "prerequisite_cycle"
	ConfigRequirementCycle  = "requirement_cycle"
	ConfigBadParent         = "invalid_parent"
	ConfigBadNodeType       = "invalid_node_type"
)

func (e *ConfigurationError) Error() string {
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("configuration error (%s): cycle %s", e.Kind, strings.Join(e.Cycle, " -> "))
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Kind, e.Detail)
}

// Data-issue markers reported in-band on requirement statuses instead of
// failing the evaluation.
const (
	DataIssueUnresolvedReference = "unresolved_reference"
	DataIssueInsufficientData    = "insufficient_data"
)
