package nodal

import (
	"fmt"
	"log"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/device"
	"github.com/edp1096/lrc-sweep/pkg/matrix"
)

const (
	sourceNode   = "src"
	sourceBranch = "Vin"
)

// Network is the modified-nodal form of a topology at one configuration.
// Every component between its named nodes, plus the source and its series
// impedance feeding circuit.InputNode.
type Network struct {
	topology  circuit.Topology
	nodeMap   map[string]int
	branchMap map[string]int
	matrix    *matrix.CircuitMatrix

	impedances []complex128
	voltage    complex128
	source     complex128
	Trace      *log.Logger
}

type Solution struct {
	Nodes    map[string]complex128
	Current  complex128 // Delivered by the source, summed at the input node
	Elements []circuit.Quantity
}

func New(t circuit.Topology, cfg circuit.Config) *Network {
	z := t.Impedances(cfg)
	red := t.Reduce(z, cfg)
	return &Network{
		topology:   t,
		nodeMap:    make(map[string]int),
		branchMap:  make(map[string]int),
		impedances: z,
		voltage:    red.Voltage,
		source:     red.Source,
	}
}

func isGround(name string) bool {
	return name == "0" || name == "gnd"
}

func (n *Network) addNode(name string) {
	if isGround(name) {
		return
	}
	if _, exists := n.nodeMap[name]; !exists {
		n.nodeMap[name] = len(n.nodeMap) + 1
	}
}

// AssignNodeBranchMaps numbers the nodes first and the branch unknowns
// after them. Zero impedances get a branch of their own.
func (n *Network) AssignNodeBranchMaps() {
	if n.source != 0 {
		n.addNode(sourceNode)
	}
	n.addNode(circuit.InputNode)
	for _, dev := range n.topology.Components() {
		for _, name := range dev.GetNodeNames() {
			n.addNode(name)
		}
	}

	next := len(n.nodeMap) + 1
	n.branchMap[sourceBranch] = next
	next++
	for i, dev := range n.topology.Components() {
		if n.impedances[i] == 0 {
			n.branchMap[dev.GetName()] = next
			next++
		}
	}
}

func (n *Network) GetNodeMap() map[string]int   { return n.nodeMap }
func (n *Network) GetBranchMap() map[string]int { return n.branchMap }

func (n *Network) node(name string) int {
	if isGround(name) {
		return 0
	}
	return n.nodeMap[name]
}

func (n *Network) CreateMatrix() error {
	m, err := matrix.NewMatrix(len(n.nodeMap) + len(n.branchMap))
	if err != nil {
		return err
	}
	n.matrix = m
	return nil
}

// stampVoltageSource ties n1-n2 to v through branch b.
func stampVoltageSource(m matrix.DeviceMatrix, n1, n2, b int, v complex128) {
	if n1 != 0 {
		m.AddComplexElement(n1, b, 1, 0)
		m.AddComplexElement(b, n1, 1, 0)
	}
	if n2 != 0 {
		m.AddComplexElement(n2, b, -1, 0)
		m.AddComplexElement(b, n2, -1, 0)
	}
	m.AddComplexRHS(b, real(v), imag(v))
}

func (n *Network) Stamp() error {
	m := n.matrix

	drive := n.node(circuit.InputNode)
	if n.source != 0 {
		drive = n.node(sourceNode)
		if err := device.StampAC(m, drive, n.node(circuit.InputNode), n.source); err != nil {
			return fmt.Errorf("stamping source impedance: %w", err)
		}
	}
	stampVoltageSource(m, drive, 0, n.branchMap[sourceBranch], n.voltage)

	for i, dev := range n.topology.Components() {
		nodes := dev.GetNodeNames()
		n1, n2 := n.node(nodes[0]), n.node(nodes[1])
		if b, ok := n.branchMap[dev.GetName()]; ok {
			stampVoltageSource(m, n1, n2, b, 0)
			continue
		}
		if err := device.StampAC(m, n1, n2, n.impedances[i]); err != nil {
			return fmt.Errorf("stamping device %s: %w", dev.GetName(), err)
		}
	}
	return nil
}

// Solve builds, stamps and solves the system, then reads back every
// element's voltage and current.
func (n *Network) Solve() (*Solution, error) {
	n.AssignNodeBranchMaps()
	if err := n.CreateMatrix(); err != nil {
		return nil, err
	}
	defer n.matrix.Destroy()

	if err := n.Stamp(); err != nil {
		return nil, err
	}
	if n.Trace != nil {
		n.Trace.Print(n.matrix.String())
	}
	if err := n.matrix.Solve(); err != nil {
		return nil, err
	}

	sol := &Solution{
		Nodes:    make(map[string]complex128, len(n.nodeMap)),
		Elements: make([]circuit.Quantity, len(n.impedances)),
	}
	for name, idx := range n.nodeMap {
		sol.Nodes[name] = n.matrix.ComplexSolution(idx)
	}

	for i, dev := range n.topology.Components() {
		nodes := dev.GetNodeNames()
		v := n.matrix.ComplexSolution(n.node(nodes[0])) - n.matrix.ComplexSolution(n.node(nodes[1]))
		q := circuit.Quantity{Voltage: v, Impedance: n.impedances[i]}
		if b, ok := n.branchMap[dev.GetName()]; ok {
			q.Current = n.matrix.ComplexSolution(b)
		} else {
			q.Current = v / n.impedances[i]
		}
		sol.Elements[i] = q

		// KCL at the input node. The source branch current is the small
		// difference of two nearly equal node voltages when the network
		// impedance dwarfs the source impedance.
		switch circuit.InputNode {
		case nodes[0]:
			sol.Current += q.Current
		case nodes[1]:
			sol.Current -= q.Current
		}
	}
	return sol, nil
}

// Solve is a shorthand for New(t, cfg).Solve().
func Solve(t circuit.Topology, cfg circuit.Config) (*Solution, error) {
	return New(t, cfg).Solve()
}
