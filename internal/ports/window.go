package ports

import "fmt"

// MaxUsablePort is the highest port a node's secondary port may occupy.
// Each node takes two consecutive ports, so the pair must fit below the
// 16-bit ceiling.
const MaxUsablePort = 65534

// Window is the inclusive range of host ports the node image is allowed
// to use. It is a plain value passed into ValidateRange so the validator
// stays a pure function.
type Window struct {
	Min int
	Max int
}

// Result is the possibly-adjusted outcome of validating a port range
// request against a window.
type Result struct {
	PortStart int
	NodeCount int
	Warnings  []string
}

// ValidateRange checks that nodeCount nodes, each taking a consecutive
// port pair starting at portStart, fit inside the window. The start is
// clamped up to the window minimum and the count clamped down to what
// fits, each clamp producing a warning. It performs no I/O and is
// idempotent: validating its own output yields no further adjustment.
func ValidateRange(portStart, nodeCount int, w Window) (Result, error) {
	var res Result

	if w.Min < 1 || w.Max > 65535 || w.Min > w.Max {
		return res, fmt.Errorf("invalid port window [%d, %d]", w.Min, w.Max)
	}
	if nodeCount < 1 {
		return res, fmt.Errorf("node count must be at least 1, got %d", nodeCount)
	}
	if portStart < 1 || portStart > 65535 {
		return res, fmt.Errorf("port start %d outside [1, 65535]", portStart)
	}
	if last := portStart + 2*(nodeCount-1) + 1; last > MaxUsablePort {
		return res, fmt.Errorf("%d nodes from port %d would end at %d, past the %d ceiling",
			nodeCount, portStart, last, MaxUsablePort)
	}

	res.PortStart = portStart
	res.NodeCount = nodeCount

	if portStart < w.Min {
		res.PortStart = w.Min
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("port start %d below window minimum, raised to %d", portStart, w.Min))
	}

	// Pairs must fit under the port ceiling even when the window's top or
	// a clamped start reaches past it, so the raw ceiling check above is
	// re-applied here through the effective maximum.
	allowedMax := w.Max
	if allowedMax > MaxUsablePort {
		allowedMax = MaxUsablePort
	}

	allowed := (allowedMax - res.PortStart + 1) / 2
	if allowed < 1 {
		return Result{}, fmt.Errorf("no ports available in window [%d, %d] from start %d",
			w.Min, w.Max, res.PortStart)
	}
	if nodeCount > allowed {
		res.NodeCount = allowed
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("window [%d, %d] only fits %d nodes, reduced from %d",
				w.Min, w.Max, allowed, nodeCount))
	}

	return res, nil
}
