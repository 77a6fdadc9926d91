// Package runtime abstracts the container runtime behind a small
// capability interface so the provisioner can be tested against a fake.
package runtime

import "context"

// Container describes one running container as seen by the runtime.
type Container struct {
	ID             string
	Name           string
	PublishedPorts []int
}

// RunSpec describes a single container-launch invocation.
type RunSpec struct {
	Name          string
	Image         string
	PrimaryPort   int
	SecondaryPort int
	// DataDir is the host directory mounted into the container at DataPath.
	DataDir  string
	DataPath string
	// Args are the positional arguments handed to the node binary.
	Args []string
}

// Runtime is the set of container-runtime capabilities the provisioner
// consumes.
type Runtime interface {
	// ListRunning enumerates currently running containers together with
	// their published host ports.
	ListRunning(ctx context.Context) ([]Container, error)
	// Run creates and starts a container from the given spec.
	Run(ctx context.Context, spec RunSpec) error
}

type unavailable struct{ err error }

// Unavailable returns a Runtime whose every call fails with err. It lets
// a failed client construction flow through the same detection-failure
// policy as a failed API call.
func Unavailable(err error) Runtime { return unavailable{err: err} }

func (u unavailable) ListRunning(context.Context) ([]Container, error) { return nil, u.err }

func (u unavailable) Run(context.Context, RunSpec) error { return u.err }
