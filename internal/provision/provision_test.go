package provision

import (
	"context"
	"sync"

	"github.com/chainspawn/chainspawn/internal/config"
	"github.com/chainspawn/chainspawn/internal/runtime"
)

// fakeRuntime records calls so tests can assert on exactly what the
// provisioner asked the container runtime to do.
type fakeRuntime struct {
	mu         sync.Mutex
	containers []runtime.Container
	listErr    error
	runErr     error
	listCalls  int
	runs       []runtime.RunSpec
}

func (f *fakeRuntime) ListRunning(context.Context) ([]runtime.Container, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.containers, nil
}

func (f *fakeRuntime) Run(_ context.Context, spec runtime.RunSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runErr != nil {
		return f.runErr
	}
	f.runs = append(f.runs, spec)
	return nil
}

func containerWithPorts(name string, ports ...int) runtime.Container {
	return runtime.Container{ID: name, Name: name, PublishedPorts: ports}
}

func testSettings() *config.Settings {
	return &config.Settings{
		Ports: config.PortsSettings{Min: 18081, Max: 18200},
		Node: config.NodeSettings{
			Prefix:        "Node",
			Image:         "chainspawn/testnode:latest",
			Network:       "testnet",
			DataPath:      "/root/node-data",
			BootstrapPeer: "seed01.testnet.chainspawn.io:18080",
			LogFlag:       "--log-level=1",
		},
		Workspace: config.WorkspaceSettings{
			Root:        "nodes",
			DataRoot:    "data",
			PerNodeData: true,
		},
	}
}
