package provision

import (
	"context"

	"github.com/chainspawn/chainspawn/internal/runtime"
)

// PortConflict records why a single port is unavailable.
type PortConflict struct {
	Port         int
	BoundLocally bool
	Published    bool
	// PublishedBy names the running container holding the port, when
	// Published is set.
	PublishedBy string
}

// Source names the conflicting side for log lines.
func (c PortConflict) Source() string {
	switch {
	case c.BoundLocally && c.Published:
		return "bound locally and published by container " + c.PublishedBy
	case c.Published:
		return "published by container " + c.PublishedBy
	default:
		return "bound locally"
	}
}

// ConflictReport is the outcome of checking one node's port pair.
// DetectionErr is set when the runtime probe failed; local results are
// still valid in that case.
type ConflictReport struct {
	Conflicts    []PortConflict
	DetectionErr error
}

type detectionAction int

const (
	warnAndContinue detectionAction = iota
	abortRun
)

type detectionKey struct {
	executing bool
	ignore    bool
}

// detectionFailureActions is the decision table for a failed runtime
// probe. "executing" means execute was requested and dry-run is off;
// only that mode with runtime checks enforced aborts the run.
var detectionFailureActions = map[detectionKey]detectionAction{
	{executing: true, ignore: false}:  abortRun,
	{executing: true, ignore: true}:   warnAndContinue,
	{executing: false, ignore: false}: warnAndContinue,
	{executing: false, ignore: true}:  warnAndContinue,
}

func detectionFailureAction(executing, ignore bool) detectionAction {
	return detectionFailureActions[detectionKey{executing: executing, ignore: ignore}]
}

// checkPorts probes both of a node's ports against the local socket
// table and the runtime's published ports. A runtime failure is
// reported as DetectionErr, never conflated with "not published".
func (p *Provisioner) checkPorts(ctx context.Context, plan NodePlan) ConflictReport {
	var report ConflictReport

	published, err := PublishedPorts(ctx, p.rt)
	report.DetectionErr = err

	for _, port := range []int{plan.PrimaryPort, plan.SecondaryPort} {
		conflict := PortConflict{Port: port}
		if !p.probe(port) {
			conflict.BoundLocally = true
		}
		if owner, ok := published[port]; err == nil && ok {
			conflict.Published = true
			conflict.PublishedBy = owner
		}
		if conflict.BoundLocally || conflict.Published {
			report.Conflicts = append(report.Conflicts, conflict)
		}
	}

	return report
}

// PublishedPorts enumerates running containers and maps each published
// host port to the name (or ID) of the container holding it.
func PublishedPorts(ctx context.Context, rt runtime.Runtime) (map[int]string, error) {
	containers, err := rt.ListRunning(ctx)
	if err != nil {
		return nil, err
	}

	published := make(map[int]string)
	for _, c := range containers {
		owner := c.Name
		if owner == "" {
			owner = c.ID
		}
		for _, port := range c.PublishedPorts {
			published[port] = owner
		}
	}

	return published, nil
}
