package matrix

import (
	"fmt"
	"strings"

	"github.com/edp1096/sparse"
)

// CircuitMatrix is a complex modified-nodal system with interleaved
// real/imaginary RHS and solution vectors.
type CircuitMatrix struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	solution []float64
	config   *sparse.Configuration
}

func NewMatrix(size int) (*CircuitMatrix, error) {
	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           true,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	return &CircuitMatrix{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, 2*(size+1)), // 1-based indexing
		solution: make([]float64, 2*(size+1)),
		config:   config,
	}, nil
}

func (m *CircuitMatrix) inRange(i int) bool {
	return i > 0 && i <= m.Size
}

func (m *CircuitMatrix) AddComplexElement(i, j int, real, imag float64) {
	if !m.inRange(i) || !m.inRange(j) {
		return
	}
	element := m.matrix.GetElement(int64(i), int64(j))
	element.Real += real
	element.Imag += imag
}

// AddAdmittance stamps y between n1 and n2 using the four-element template.
func (m *CircuitMatrix) AddAdmittance(n1, n2 int, y complex128) error {
	if n1 > m.Size || n2 > m.Size {
		return fmt.Errorf("admittance index out of bounds (n1=%d, n2=%d, size=%d)", n1, n2, m.Size)
	}
	var tmpl sparse.Template
	if err := m.matrix.GetAdmittance(int64(n1), int64(n2), &tmpl); err != nil {
		return err
	}
	tmpl.AddComplexQuad(real(y), imag(y))
	return nil
}

func (m *CircuitMatrix) AddComplexRHS(i int, real, imag float64) {
	if !m.inRange(i) {
		return
	}
	m.rhs[2*i] += real
	m.rhs[2*i+1] += imag
}

func (m *CircuitMatrix) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

func (m *CircuitMatrix) Solve() error {
	if err := m.matrix.Factor(); err != nil {
		return fmt.Errorf("matrix factorization failed: %w", err)
	}

	solution, _, err := m.matrix.SolveComplex(m.rhs, nil)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %w", err)
	}
	m.solution = solution
	return nil
}

// ComplexSolution returns unknown i; ground (0) is always zero.
func (m *CircuitMatrix) ComplexSolution(i int) complex128 {
	if !m.inRange(i) || 2*i+1 >= len(m.solution) {
		return 0
	}
	return complex(m.solution[2*i], m.solution[2*i+1])
}

// String renders the system row by row, for trace output.
func (m *CircuitMatrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Circuit equations (%dx%d):\n", m.Size, m.Size)
	for i := 1; i <= m.Size; i++ {
		for j := 1; j <= m.Size; j++ {
			element := m.matrix.GetElement(int64(i), int64(j))
			if element.Real != 0 || element.Imag != 0 {
				fmt.Fprintf(&sb, "  (%g%+gj)*x%d", element.Real, element.Imag, j)
			}
		}
		fmt.Fprintf(&sb, " = %g%+gj\n", m.rhs[2*i], m.rhs[2*i+1])
	}
	return sb.String()
}

func (m *CircuitMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
}
