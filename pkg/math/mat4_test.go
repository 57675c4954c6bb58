package math

import (
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
	if !m.IsIdentity() {
		t.Error("Identity().IsIdentity() should be true")
	}
	if Translate(0, 0, 1).IsIdentity() {
		t.Error("translation should not report identity")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestMulRowMajorProduct(t *testing.T) {
	a := fromRows(
		[4]float32{1, 2, 0, 0},
		[4]float32{0, 1, 0, 0},
		[4]float32{0, 0, 1, 0},
		[4]float32{0, 0, 0, 1},
	)
	b := fromRows(
		[4]float32{1, 0, 0, 5},
		[4]float32{3, 1, 0, 0},
		[4]float32{0, 0, 2, 0},
		[4]float32{0, 0, 0, 1},
	)
	got := a.Mul(b)
	want := fromRows(
		[4]float32{7, 2, 0, 5},
		[4]float32{3, 1, 0, 0},
		[4]float32{0, 0, 2, 0},
		[4]float32{0, 0, 0, 1},
	)
	if got != want {
		t.Errorf("A*B: got %v, want %v", got, want)
	}
	// Row 0, column 3 lives in the translation slot of column-major storage
	if got[12] != 5 {
		t.Errorf("row 0, col 3: got %v, want 5", got[12])
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3, 4)

	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformPointIgnoresW(t *testing.T) {
	m := Identity()
	m[15] = 2
	got := m.TransformPoint([3]float32{1, 2, 3})
	if got != [3]float32{1, 2, 3} {
		t.Errorf("TransformPoint should not divide by w: got %v", got)
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scale(2, 2, 2)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{2, 4, 6}
	if result != expected {
		t.Errorf("TransformPoint with scale: got %v, want %v", result, expected)
	}
}

func TestTransformDirection(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformDirection([3]float32{0, 1, 0})
	if got != [3]float32{0, 2, 0} {
		t.Errorf("TransformDirection: got %v, want (0, 2, 0)", got)
	}
}

func TestCompose(t *testing.T) {
	m := Compose(Vec3{1, 2, 3}, QuatIdentity(), Vec3{2, 2, 2})
	got := m.TransformPoint([3]float32{1, 1, 1})
	if got != [3]float32{3, 4, 5} {
		t.Errorf("Compose TRS: got %v, want (3, 4, 5)", got)
	}
}

func TestArray64RoundTrip(t *testing.T) {
	m := Translate(1, 2, 3).Mul(Scale(4, 5, 6))
	if got := FromArray64(m.Array64()); got != m {
		t.Errorf("FromArray64(Array64()): got %v, want %v", got, m)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(1, 2, 3)
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("Transpose: got %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("double transpose should be identity operation")
	}
}

func TestInverse(t *testing.T) {
	m := Translate(1, 2, 3).Mul(Scale(2, 4, 8))
	got := m.Mul(m.Inverse())
	id := Identity()
	for i := 0; i < 16; i++ {
		if abs(got[i]-id[i]) > 1e-5 {
			t.Fatalf("M * M^-1 element %d: got %v, want %v", i, got[i], id[i])
		}
	}
}

func TestNormalMatrix(t *testing.T) {
	// Non-uniform scale: a surface tilted 45 degrees in XY
	m := Scale(2, 1, 1)
	n := m.NormalMatrix()
	got := n.TransformDirection([3]float32{1, 1, 0})
	if abs(got[0]-0.5) > 1e-6 || abs(got[1]-1) > 1e-6 || got[2] != 0 {
		t.Errorf("NormalMatrix: got %v, want (0.5, 1, 0)", got)
	}
	if n[12] != 0 || n[13] != 0 || n[14] != 0 {
		t.Errorf("NormalMatrix should drop translation: %v", n)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// fromRows builds a matrix from four rows written the way it reads on paper.
func fromRows(r0, r1, r2, r3 [4]float32) Mat4 {
	var m Mat4
	rows := [4][4]float32{r0, r1, r2, r3}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m[col*4+row] = rows[row][col]
		}
	}
	return m
}
