package provision

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrDirExists signals that a node's working directory is already
// present and overwrite was not requested. Callers skip the node.
var ErrDirExists = errors.New("node directory already exists")

// workspace provisions per-node directories and the shared data root.
// All access goes through afero so tests run on a memory filesystem.
// In dry-run mode every mutation is replaced with a logged intent.
type workspace struct {
	fs          afero.Fs
	dataRoot    string
	perNodeData bool
	dryRun      bool
}

func newWorkspace(fs afero.Fs, dataRoot string, perNodeData, dryRun bool) *workspace {
	return &workspace{fs: fs, dataRoot: dataRoot, perNodeData: perNodeData, dryRun: dryRun}
}

// ensureDataRoot creates the shared data root if absent. Idempotent.
func (w *workspace) ensureDataRoot() error {
	exists, err := afero.DirExists(w.fs, w.dataRoot)
	if err != nil {
		return fmt.Errorf("checking data root %s: %w", w.dataRoot, err)
	}
	if exists {
		return nil
	}
	if w.dryRun {
		log.Infof("dry run: would create data root %s", w.dataRoot)
		return nil
	}
	if err := w.fs.MkdirAll(w.dataRoot, 0o755); err != nil {
		return fmt.Errorf("creating data root %s: %w", w.dataRoot, err)
	}

	return nil
}

// prepare creates a node's working directory and, when configured, its
// data subdirectory. An existing working directory is removed first when
// overwrite is set, otherwise ErrDirExists is returned.
func (w *workspace) prepare(plan NodePlan, overwrite bool) error {
	exists, err := afero.DirExists(w.fs, plan.WorkDir)
	if err != nil {
		return fmt.Errorf("checking %s: %w", plan.WorkDir, err)
	}
	if exists {
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrDirExists, plan.WorkDir)
		}
		if w.dryRun {
			log.Infof("dry run: would remove %s", plan.WorkDir)
		} else if err := w.fs.RemoveAll(plan.WorkDir); err != nil {
			return fmt.Errorf("removing %s: %w", plan.WorkDir, err)
		}
	}

	if w.dryRun {
		log.Infof("dry run: would create %s", plan.WorkDir)
		if w.perNodeData {
			log.Infof("dry run: would create %s", plan.DataDir)
		}
		return nil
	}

	if err := w.fs.MkdirAll(plan.WorkDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", plan.WorkDir, err)
	}
	if w.perNodeData {
		if err := w.fs.MkdirAll(plan.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", plan.DataDir, err)
		}
	}

	return nil
}
