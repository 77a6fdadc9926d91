// Package provision plans and launches containerized test nodes, one
// consecutive host port pair per node.
package provision

import (
	"fmt"
	"path/filepath"

	"github.com/chainspawn/chainspawn/internal/config"
)

// Request describes one provisioning run.
type Request struct {
	StartIndex int
	NodeCount  int
	PortStart  int
	Prefix     string
	Image      string

	Execute             bool
	Overwrite           bool
	DryRun              bool
	IgnoreRuntimeChecks bool
}

// NodePlan is the derived plan for a single node: its name, port pair
// and directories.
type NodePlan struct {
	Index         int
	Name          string
	PrimaryPort   int
	SecondaryPort int
	WorkDir       string
	DataDir       string
}

// buildPlans derives one NodePlan per node index. portStart and
// nodeCount are the validated (possibly clamped) values; each node i
// gets ports (portStart+2i, portStart+2i+1).
func buildPlans(req Request, portStart, nodeCount int, cfg *config.Settings) []NodePlan {
	plans := make([]NodePlan, 0, nodeCount)
	for i := 0; i < nodeCount; i++ {
		name := fmt.Sprintf("%s%d", req.Prefix, req.StartIndex+i)

		dataDir := cfg.Workspace.DataRoot
		if cfg.Workspace.PerNodeData {
			dataDir = filepath.Join(cfg.Workspace.DataRoot, name)
		}

		plans = append(plans, NodePlan{
			Index:         req.StartIndex + i,
			Name:          name,
			PrimaryPort:   portStart + 2*i,
			SecondaryPort: portStart + 2*i + 1,
			WorkDir:       filepath.Join(cfg.Workspace.Root, name),
			DataDir:       dataDir,
		})
	}

	return plans
}
