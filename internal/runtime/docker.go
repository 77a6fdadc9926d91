package runtime

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// APIClient is the slice of the Docker Engine API the runtime uses.
type APIClient interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *ocispec.Platform,
		containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
}

// Docker implements Runtime on the Docker Engine API.
type Docker struct {
	api APIClient
}

// NewDocker creates a Docker runtime from the environment (DOCKER_HOST
// and friends), negotiating the API version with the daemon.
func NewDocker() (*Docker, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}

	return &Docker{api: cli}, nil
}

// NewDockerWithClient creates a Docker runtime on an existing API client.
func NewDockerWithClient(api APIClient) *Docker {
	return &Docker{api: api}
}

// ListRunning returns running containers with their published host ports.
func (d *Docker) ListRunning(ctx context.Context) ([]Container, error) {
	summaries, err := d.api.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	containers := make([]Container, 0, len(summaries))
	for _, s := range summaries {
		c := Container{ID: s.ID}
		if len(s.Names) > 0 {
			c.Name = strings.TrimPrefix(s.Names[0], "/")
		}
		for _, p := range s.Ports {
			if p.PublicPort != 0 {
				c.PublishedPorts = append(c.PublishedPorts, int(p.PublicPort))
			}
		}
		containers = append(containers, c)
	}

	return containers, nil
}

// Run creates and starts a detached container with the spec's two host
// ports published 1:1, its data directory bind-mounted, and restart
// policy "unless-stopped".
func (d *Docker) Run(ctx context.Context, spec RunSpec) error {
	exposed := nat.PortSet{}
	bindings := nat.PortMap{}
	for _, port := range []int{spec.PrimaryPort, spec.SecondaryPort} {
		p, err := nat.NewPort("tcp", strconv.Itoa(port))
		if err != nil {
			return fmt.Errorf("invalid port %d: %w", port, err)
		}
		exposed[p] = struct{}{}
		bindings[p] = []nat.PortBinding{{HostPort: strconv.Itoa(port)}}
	}

	cfg := &container.Config{
		Image:        spec.Image,
		Cmd:          strslice.StrSlice(spec.Args),
		OpenStdin:    true,
		ExposedPorts: exposed,
	}
	hostCfg := &container.HostConfig{
		RestartPolicy: container.RestartPolicy{Name: container.RestartPolicyUnlessStopped},
		PortBindings:  bindings,
		Binds:         []string{spec.DataDir + ":" + spec.DataPath},
	}

	created, err := d.api.ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return fmt.Errorf("creating container %s: %w", spec.Name, err)
	}
	if err := d.api.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("starting container %s: %w", spec.Name, err)
	}

	return nil
}
