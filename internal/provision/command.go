package provision

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chainspawn/chainspawn/internal/config"
	"github.com/chainspawn/chainspawn/internal/runtime"
)

// buildRunSpec renders the container-launch invocation for one node.
// The node binary's positional arguments are: network, in-container
// data path, peer port, control port, bootstrap peer, then the
// log-verbosity flag.
func buildRunSpec(plan NodePlan, cfg *config.Settings, image string) runtime.RunSpec {
	if image == "" {
		image = cfg.Node.Image
	}

	return runtime.RunSpec{
		Name:          plan.Name,
		Image:         image,
		PrimaryPort:   plan.PrimaryPort,
		SecondaryPort: plan.SecondaryPort,
		DataDir:       plan.DataDir,
		DataPath:      cfg.Node.DataPath,
		Args: []string{
			cfg.Node.Network,
			cfg.Node.DataPath,
			strconv.Itoa(plan.PrimaryPort),
			strconv.Itoa(plan.SecondaryPort),
			cfg.Node.BootstrapPeer,
			cfg.Node.LogFlag,
		},
	}
}

// CommandLine renders the docker run invocation equivalent to executing
// the spec, for preview output.
func CommandLine(spec runtime.RunSpec) string {
	parts := []string{
		"docker", "run", "-d", "-i",
		"--restart", "unless-stopped",
		"--name", spec.Name,
		"-p", fmt.Sprintf("%d:%d", spec.PrimaryPort, spec.PrimaryPort),
		"-p", fmt.Sprintf("%d:%d", spec.SecondaryPort, spec.SecondaryPort),
		"-v", spec.DataDir + ":" + spec.DataPath,
		spec.Image,
	}
	parts = append(parts, spec.Args...)

	return strings.Join(parts, " ")
}
