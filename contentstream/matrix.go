package contentstream

// Matrix is a 2D affine transform [a b c d e f], applied to a point
// (x, y) as x' = a*x + c*y + e, y' = b*x + d*y + f (8.3.4).
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the neutral transform.
func Identity() Matrix { return Matrix{A: 1, D: 1} }

// Mul computes m composed with n, matching PDF's row-vector convention
// where a point is transformed by m then n: [x y 1] * m * n.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.C,
		B: m.A*n.B + m.B*n.D,
		C: m.C*n.A + m.D*n.C,
		D: m.C*n.B + m.D*n.D,
		E: m.E*n.A + m.F*n.C + n.E,
		F: m.E*n.B + m.F*n.D + n.F,
	}
}

// Apply transforms the point (x, y) by m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix { return Matrix{A: 1, D: 1, E: tx, F: ty} }
