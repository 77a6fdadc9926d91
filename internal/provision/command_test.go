package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRunSpec(t *testing.T) {
	cfg := testSettings()
	spec := buildRunSpec(NodePlan{
		Name:          "Node3",
		PrimaryPort:   18154,
		SecondaryPort: 18155,
		WorkDir:       "nodes/Node3",
		DataDir:       "data/Node3",
	}, cfg, "")

	assert.Equal(t, "Node3", spec.Name)
	assert.Equal(t, "chainspawn/testnode:latest", spec.Image)
	assert.Equal(t, "data/Node3", spec.DataDir)
	assert.Equal(t, "/root/node-data", spec.DataPath)
	assert.Equal(t, []string{
		"testnet", "/root/node-data", "18154", "18155",
		"seed01.testnet.chainspawn.io:18080", "--log-level=1",
	}, spec.Args)
}

func TestCommandLineShape(t *testing.T) {
	cfg := testSettings()
	spec := buildRunSpec(NodePlan{
		Name:          "Node1",
		PrimaryPort:   18150,
		SecondaryPort: 18151,
		WorkDir:       "nodes/Node1",
		DataDir:       "data/Node1",
	}, cfg, "")

	want := "docker run -d -i --restart unless-stopped --name Node1" +
		" -p 18150:18150 -p 18151:18151" +
		" -v data/Node1:/root/node-data" +
		" chainspawn/testnode:latest" +
		" testnet /root/node-data 18150 18151" +
		" seed01.testnet.chainspawn.io:18080 --log-level=1"
	assert.Equal(t, want, CommandLine(spec))
}

func TestBuildPlansDeriveNamesAndPorts(t *testing.T) {
	cfg := testSettings()
	plans := buildPlans(Request{StartIndex: 4, Prefix: "Node"}, 18110, 3, cfg)

	assert.Len(t, plans, 3)
	assert.Equal(t, "Node4", plans[0].Name)
	assert.Equal(t, "Node6", plans[2].Name)
	assert.Equal(t, 18114, plans[2].PrimaryPort)
	assert.Equal(t, 18115, plans[2].SecondaryPort)
	assert.Equal(t, "nodes/Node4", plans[0].WorkDir)
	assert.Equal(t, "data/Node4", plans[0].DataDir)
}

func TestBuildPlansSharedDataRoot(t *testing.T) {
	cfg := testSettings()
	cfg.Workspace.PerNodeData = false

	plans := buildPlans(Request{StartIndex: 1, Prefix: "Node"}, 18110, 2, cfg)
	assert.Equal(t, "data", plans[0].DataDir)
	assert.Equal(t, "data", plans[1].DataDir)
}
