package matrix

// DeviceMatrix is the stamping surface handed to elements. Indices are
// 1-based; index 0 is ground and is ignored.
type DeviceMatrix interface {
	AddComplexElement(i, j int, real, imag float64)
	AddAdmittance(n1, n2 int, y complex128) error
	AddComplexRHS(i int, real, imag float64)
}
