package provision

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/chainspawn/chainspawn/internal/config"
	"github.com/chainspawn/chainspawn/internal/ports"
	"github.com/chainspawn/chainspawn/internal/runtime"
)

// NodeResult records what happened to one planned node.
type NodeResult struct {
	Plan     NodePlan
	Launched bool
	Skipped  bool
	Reason   string
	Err      error
}

// Provisioner runs the sequential plan-check-provision-launch loop.
type Provisioner struct {
	cfg   *config.Settings
	fs    afero.Fs
	rt    runtime.Runtime
	out   io.Writer
	probe func(port int) bool
}

// New creates a Provisioner. out receives user-facing lines (planned
// commands, launch confirmations).
func New(cfg *config.Settings, fs afero.Fs, rt runtime.Runtime, out io.Writer) *Provisioner {
	return &Provisioner{
		cfg:   cfg,
		fs:    fs,
		rt:    rt,
		out:   out,
		probe: ports.Available,
	}
}

// Run validates the requested range, then processes each planned node in
// order: port checks, workspace provisioning, launch or preview. Node
// failures are logged and skip only that node; a returned error means
// either the configuration was unsatisfiable or the runtime probe failed
// in a mode that enforces it.
func (p *Provisioner) Run(ctx context.Context, req Request) ([]NodeResult, error) {
	window := ports.Window{Min: p.cfg.Ports.Min, Max: p.cfg.Ports.Max}
	validated, err := ports.ValidateRange(req.PortStart, req.NodeCount, window)
	if err != nil {
		return nil, err
	}
	for _, warning := range validated.Warnings {
		log.Warn(warning)
	}

	plans := buildPlans(req, validated.PortStart, validated.NodeCount, p.cfg)

	ws := newWorkspace(p.fs, p.cfg.Workspace.DataRoot, p.cfg.Workspace.PerNodeData, req.DryRun)
	if err := ws.ensureDataRoot(); err != nil {
		return nil, err
	}

	executing := req.Execute && !req.DryRun

	results := make([]NodeResult, 0, len(plans))
	for _, plan := range plans {
		result, abort := p.processNode(ctx, plan, req, ws, executing)
		results = append(results, result)

		if abort {
			return results, fmt.Errorf("runtime port detection failed for %s: %w",
				plan.Name, result.Err)
		}
	}

	return results, nil
}

// processNode handles one node end to end. abort is true only when a
// runtime detection failure must stop the remaining nodes per the
// decision table.
func (p *Provisioner) processNode(ctx context.Context, plan NodePlan, req Request,
	ws *workspace, executing bool,
) (result NodeResult, abort bool) {
	result = NodeResult{Plan: plan}

	report := p.checkPorts(ctx, plan)
	if report.DetectionErr != nil {
		if detectionFailureAction(executing, req.IgnoreRuntimeChecks) == abortRun {
			result.Skipped = true
			result.Reason = "runtime detection failed"
			result.Err = report.DetectionErr
			return result, true
		}
		log.Warnf("%s: runtime port detection failed, assuming ports unpublished: %v",
			plan.Name, report.DetectionErr)
	}

	if len(report.Conflicts) > 0 {
		for _, conflict := range report.Conflicts {
			log.Warnf("%s: port %d in use (%s)", plan.Name, conflict.Port, conflict.Source())
		}
		if executing {
			result.Skipped = true
			result.Reason = "port conflict"
			return result, false
		}
	}

	if err := ws.prepare(plan, req.Overwrite); err != nil {
		result.Skipped = true
		if errors.Is(err, ErrDirExists) {
			log.Warnf("%s: %v, skipping (use --overwrite to replace)", plan.Name, err)
			result.Reason = "directory exists"
		} else {
			log.Errorf("%s: workspace: %v", plan.Name, err)
			result.Reason = "workspace error"
			result.Err = err
		}
		return result, false
	}

	spec := buildRunSpec(plan, p.cfg, req.Image)

	if !executing {
		if req.DryRun {
			fmt.Fprintf(p.out, "%s: would run: %s\n", plan.Name, CommandLine(spec))
		} else {
			fmt.Fprintln(p.out, CommandLine(spec))
		}
		return result, false
	}

	if err := p.rt.Run(ctx, spec); err != nil {
		log.Errorf("%s: launch failed: %v", plan.Name, err)
		result.Skipped = true
		result.Reason = "launch failure"
		result.Err = err
		return result, false
	}

	result.Launched = true
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(p.out, "%s %s launched on ports %d/%d\n",
		green("✓"), plan.Name, plan.PrimaryPort, plan.SecondaryPort)

	return result, false
}
