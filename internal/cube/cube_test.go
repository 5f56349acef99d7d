package cube

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/SeamusWaldron/twisty/pkg/types"
)

func mustNew(t *testing.T, size int, opts ...Option) *State {
	t.Helper()
	s, err := New(size, opts...)
	if err != nil {
		t.Fatalf("New(%d): %v", size, err)
	}
	return s
}

func sameSnapshot(a, b []Stickers) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGeneratePositions(t *testing.T) {
	tests := []struct {
		size    int
		spacing float64
		want    []float64
	}{
		{1, 10, []float64{0}},
		{2, 2.2, []float64{-1.1, 1.1}},
		{3, 1, []float64{-1, 0, 1}},
		{4, 2, []float64{-3, -1, 1, 3}},
	}

	for _, tt := range tests {
		got := GeneratePositions(tt.size, tt.spacing)
		if len(got) != len(tt.want) {
			t.Errorf("GeneratePositions(%d, %v) = %v, want %v", tt.size, tt.spacing, got, tt.want)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("GeneratePositions(%d, %v) = %v, want %v", tt.size, tt.spacing, got, tt.want)
				break
			}
		}
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(0); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("New(0) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := New(3, WithSpacing(0)); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("New(3, spacing 0) error = %v, want ErrInvalidArgument", err)
	}
}

func TestNewCubeIsSolved(t *testing.T) {
	for size := 1; size <= 5; size++ {
		s := mustNew(t, size)
		if !s.IsSolved() {
			t.Errorf("new %dx%dx%d should be solved", size, size, size)
		}
		if s.Total() != size*size*size || s.Len() != size*size*size {
			t.Errorf("size %d: Total=%d Len=%d", size, s.Total(), s.Len())
		}
	}
}

func TestOnlyBoundaryFacesHaveStickers(t *testing.T) {
	s := mustNew(t, 4)
	assertBoundaryStickers(t, s)
}

func assertBoundaryStickers(t *testing.T, s *State) {
	t.Helper()
	last := s.Size() - 1
	for _, slot := range s.Slots() {
		st := s.StickersOf(slot)
		for _, f := range Faces {
			axis, sign := f.Normal()
			boundary := (sign > 0 && slot.Get(axis) == last) || (sign < 0 && slot.Get(axis) == 0)
			if boundary != (st[f] != None) {
				t.Fatalf("cube %v face %v: sticker %v, boundary %v", slot, f, st[f], boundary)
			}
		}
	}
}

func TestLayerLookup(t *testing.T) {
	s := mustNew(t, 3, WithSpacing(1))

	if got := s.Coordinates(); got[0] != -1 || got[1] != 0 || got[2] != 1 {
		t.Errorf("Coordinates = %v, want [-1 0 1]", got)
	}
	for i, c := range s.Coordinates() {
		if s.LayerOf(c) != i {
			t.Errorf("LayerOf(%v) = %d, want %d", c, s.LayerOf(c), i)
		}
	}
	if s.LayerOf(0.5) != -1 {
		t.Error("LayerOf(0.5) should be -1")
	}

	cubes, err := s.Layer(types.AxisY, 2)
	if err != nil {
		t.Fatalf("Layer: %v", err)
	}
	if len(cubes) != 9 {
		t.Fatalf("Layer returned %d cubes, want 9", len(cubes))
	}
	for i := 1; i < len(cubes); i++ {
		a, b := cubes[i-1].Slot, cubes[i].Slot
		if a.X > b.X || (a.X == b.X && a.Z >= b.Z) {
			t.Errorf("layer not in canonical order: %v before %v", a, b)
		}
	}
	for _, c := range cubes {
		if c.Slot.Y != 2 {
			t.Errorf("cube %v not in y layer 2", c.Slot)
		}
	}

	slot := Slot{X: 0, Y: 2, Z: 1}
	got, ok := s.SlotAt(s.Position(slot))
	if !ok || got != slot {
		t.Errorf("SlotAt(Position(%v)) = %v, %v", slot, got, ok)
	}

	if _, err := s.Layer(types.AxisX, 3); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("Layer(x, 3) error = %v", err)
	}
}

func TestFaceNormals(t *testing.T) {
	for _, f := range Faces {
		axis, sign := f.Normal()
		if FaceFor(axis, sign) != f {
			t.Errorf("FaceFor(Normal(%v)) = %v", f, FaceFor(axis, sign))
		}
	}
	if axis, sign := Bottom.Normal(); axis != types.AxisY || sign != 1 {
		t.Errorf("Bottom.Normal() = %v, %d", axis, sign)
	}
}

func TestGroup(t *testing.T) {
	s := mustNew(t, 3)
	if s.Len() != 27 {
		t.Fatalf("Len = %d, want 27", s.Len())
	}

	w, err := s.Group(types.AxisX, 0)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if w.Len() != 9 {
		t.Errorf("wall has %d cubes, want 9", w.Len())
	}
	if s.Len() != 27-9 {
		t.Errorf("body has %d cubes, want 18", s.Len())
	}
}

func TestUngroup(t *testing.T) {
	s := mustNew(t, 3)
	w, err := s.Group(types.AxisX, 0)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	s.Ungroup(w)
	if w.Len() != 0 {
		t.Errorf("wall has %d cubes after ungroup, want 0", w.Len())
	}
	if s.Len() != 27 {
		t.Errorf("body has %d cubes, want 27", s.Len())
	}
}

func TestGroupCountConservation(t *testing.T) {
	s := mustNew(t, 4)
	for _, axis := range types.Axes {
		for layer := 0; layer < 4; layer++ {
			w, err := s.Group(axis, layer)
			if err != nil {
				t.Fatalf("Group(%v, %d): %v", axis, layer, err)
			}
			if s.Len()+w.Len() != 64 {
				t.Errorf("%v%d: body %d + wall %d != 64", axis, layer, s.Len(), w.Len())
			}

			seen := make(map[Slot]bool)
			for _, slot := range w.Slots() {
				if seen[slot] {
					t.Errorf("%v%d: slot %v duplicated", axis, layer, slot)
				}
				seen[slot] = true
			}

			s.Ungroup(w)
			if s.Len() != 64 {
				t.Errorf("%v%d: body %d after ungroup", axis, layer, s.Len())
			}
		}
	}
}

func TestGroupOverlapIsBusy(t *testing.T) {
	s := mustNew(t, 3)
	w, err := s.Group(types.AxisX, 0)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if _, err := s.Group(types.AxisY, 0); !errors.Is(err, ErrWallBusy) {
		t.Errorf("overlapping Group error = %v, want ErrWallBusy", err)
	}
	if s.Len() != 18 {
		t.Errorf("failed Group changed body count to %d", s.Len())
	}

	other, err := s.Group(types.AxisX, 2)
	if err != nil {
		t.Errorf("parallel layer should group: %v", err)
	} else {
		s.Ungroup(other)
	}

	s.Ungroup(w)
	w, err = s.Group(types.AxisY, 0)
	if err != nil {
		t.Fatalf("Group after ungroup: %v", err)
	}
	s.Ungroup(w)
}

func TestRelocateChangesWall(t *testing.T) {
	s := mustNew(t, 3)
	w, _ := s.Group(types.AxisX, 0)
	defer s.Ungroup(w)

	initial := w.Stickers()
	if err := w.Relocate(types.Forward); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if sameSnapshot(initial, w.Stickers()) {
		t.Error("relocation should change the wall")
	}
}

func TestRelocateBackAndForth(t *testing.T) {
	s := mustNew(t, 3)
	w, _ := s.Group(types.AxisX, 0)
	defer s.Ungroup(w)

	initial := w.Stickers()
	_ = w.Relocate(types.Forward)
	_ = w.Relocate(types.Backward)
	if !sameSnapshot(initial, w.Stickers()) {
		t.Error("relocating back and forth should restore the wall")
	}
}

func TestRelocateFourTimes(t *testing.T) {
	for size := 1; size <= 6; size++ {
		s := mustNew(t, size)
		w, _ := s.Group(types.AxisZ, 0)
		initial := w.Stickers()
		for i := 0; i < 4; i++ {
			_ = w.Relocate(types.Forward)
		}
		if !sameSnapshot(initial, w.Stickers()) {
			t.Errorf("size %d: four relocations should restore the wall", size)
		}
		s.Ungroup(w)
	}
}

func TestSourceIndexIsPermutation(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for _, dir := range []types.Direction{types.Forward, types.Backward} {
			seen := make([]bool, n*n)
			for i := 0; i < n*n; i++ {
				src := sourceIndex(n, i, dir)
				if src < 0 || src >= n*n || seen[src] {
					t.Fatalf("n=%d dir=%d: bad source %d for %d", n, dir, src, i)
				}
				seen[src] = true
			}
		}
		for i := 0; i < n*n; i++ {
			// Forward then Backward: cell i pulls from f(i), which pulled from b(f(i)).
			if got := sourceIndex(n, sourceIndex(n, i, types.Backward), types.Forward); got != i {
				t.Errorf("n=%d: backward is not the inverse of forward at %d (%d)", n, i, got)
			}
		}
	}
}

func TestReorientChangesWall(t *testing.T) {
	s := mustNew(t, 3)
	w, _ := s.Group(types.AxisX, 0)
	defer s.Ungroup(w)

	initial := w.Stickers()
	_ = w.Reorient(types.Forward)
	if sameSnapshot(initial, w.Stickers()) {
		t.Error("reorientation should change the wall")
	}
}

func TestReorientBackAndForth(t *testing.T) {
	s := mustNew(t, 3)
	for _, axis := range types.Axes {
		w, _ := s.Group(axis, 0)
		initial := w.Stickers()
		_ = w.Reorient(types.Forward)
		_ = w.Reorient(types.Backward)
		if !sameSnapshot(initial, w.Stickers()) {
			t.Errorf("%v: reorienting back and forth should restore the wall", axis)
		}
		s.Ungroup(w)
	}
}

func TestReorientFourTimes(t *testing.T) {
	s := mustNew(t, 3)
	for _, axis := range types.Axes {
		w, _ := s.Group(axis, 2)
		initial := w.Stickers()
		for i := 0; i < 4; i++ {
			_ = w.Reorient(types.Forward)
		}
		if !sameSnapshot(initial, w.Stickers()) {
			t.Errorf("%v: four reorientations should restore the wall", axis)
		}
		s.Ungroup(w)
	}
}

func TestReorientKeepsAxisFaces(t *testing.T) {
	s := mustNew(t, 3)
	for _, axis := range types.Axes {
		w, _ := s.Group(axis, 0)
		before := w.Stickers()
		_ = w.Reorient(types.Forward)
		after := w.Stickers()
		plus, minus := FaceFor(axis, 1), FaceFor(axis, -1)
		for i := range before {
			if before[i][plus] != after[i][plus] || before[i][minus] != after[i][minus] {
				t.Errorf("%v: faces along the turn axis moved", axis)
			}
		}
		s.Ungroup(w)
	}
}

func TestPaintRoundTrip(t *testing.T) {
	for size := 1; size <= 5; size++ {
		s := mustNew(t, size)
		initial := s.Snapshot()
		for _, axis := range types.Axes {
			for layer := 0; layer < size; layer++ {
				m := types.Move{Axis: axis, Layer: layer, Direction: types.Forward}
				if err := s.Paint(m); err != nil {
					t.Fatalf("Paint(%v): %v", m, err)
				}
				if err := s.Paint(m.Inverse()); err != nil {
					t.Fatalf("Paint(%v): %v", m.Inverse(), err)
				}
				if !sameSnapshot(initial, s.Snapshot()) {
					t.Errorf("size %d: %v then %v should restore the state", size, m, m.Inverse())
				}
			}
		}
	}
}

func TestPaintFourTimes(t *testing.T) {
	s := mustNew(t, 3)
	initial := s.Snapshot()
	for _, axis := range types.Axes {
		for layer := 0; layer < 3; layer++ {
			for _, dir := range []types.Direction{types.Forward, types.Backward} {
				m := types.Move{Axis: axis, Layer: layer, Direction: dir}
				for i := 0; i < 4; i++ {
					_ = s.Paint(m)
				}
				if !sameSnapshot(initial, s.Snapshot()) {
					t.Errorf("%v x 4 should restore the state", m)
				}
			}
		}
	}
}

func TestScenarioX0ForwardBackward(t *testing.T) {
	s := mustNew(t, 3, WithSpacing(1))
	initial := s.Snapshot()

	if err := s.Paint(types.Move{Axis: types.AxisX, Layer: 0, Direction: types.Forward}); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	if s.IsSolved() {
		t.Error("state should not be solved after x0")
	}
	if err := s.Paint(types.Move{Axis: types.AxisX, Layer: 0, Direction: types.Backward}); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	if !sameSnapshot(initial, s.Snapshot()) {
		t.Error("x0 then x0' should restore every sticker array")
		t.Log(s.String())
	}
}

func TestCommutatorSixTimesReturnsToSolved(t *testing.T) {
	// (a b a' b') x 6 = identity for two adjacent outer layers
	pairs := [][2]types.Move{
		{{Axis: types.AxisX, Layer: 2, Direction: types.Forward}, {Axis: types.AxisY, Layer: 0, Direction: types.Forward}},
		{{Axis: types.AxisY, Layer: 2, Direction: types.Forward}, {Axis: types.AxisZ, Layer: 0, Direction: types.Forward}},
		{{Axis: types.AxisZ, Layer: 2, Direction: types.Forward}, {Axis: types.AxisX, Layer: 0, Direction: types.Forward}},
	}

	for _, p := range pairs {
		s := mustNew(t, 3)
		a, b := p[0], p[1]
		for i := 0; i < 6; i++ {
			if err := s.ApplyMoves(a, b, a.Inverse(), b.Inverse()); err != nil {
				t.Fatalf("ApplyMoves: %v", err)
			}
			if i < 5 && s.IsSolved() {
				t.Errorf("(%v %v)' x %d should not be solved", a, b, i+1)
			}
		}
		if !s.IsSolved() {
			t.Errorf("(%v %v %v %v) x 6 should return to solved", a, b, a.Inverse(), b.Inverse())
			t.Log(s.String())
		}
	}
}

func TestWholeTurnFollowsRightHandRule(t *testing.T) {
	tests := []struct {
		axis types.Axis
		face Face
		from Face
	}{
		{types.AxisX, Left, Bottom},  // +y goes to +z
		{types.AxisY, Front, Left},   // +z goes to +x
		{types.AxisZ, Bottom, Front}, // +x goes to +y
	}

	for _, tt := range tests {
		s := mustNew(t, 3)
		for layer := 0; layer < 3; layer++ {
			_ = s.Paint(types.Move{Axis: tt.axis, Layer: layer, Direction: types.Forward})
		}
		if !s.IsSolved() {
			t.Errorf("turning every %v layer should keep the puzzle solved", tt.axis)
		}
		net := s.Net()
		if got, want := net[tt.face][1][1], s.Palette()[tt.from]; got != want {
			t.Errorf("%v: %v face shows %v, want %v", tt.axis, tt.face, got, want)
		}
	}
}

func TestScrambleAndReverse(t *testing.T) {
	s := mustNew(t, 4)
	scramble := NewShuffler(4, 42).Moves(60)

	if err := s.ApplyMoves(scramble...); err != nil {
		t.Fatalf("ApplyMoves: %v", err)
	}
	assertBoundaryStickers(t, s)

	for i := len(scramble) - 1; i >= 0; i-- {
		if err := s.Paint(scramble[i].Inverse()); err != nil {
			t.Fatalf("Paint: %v", err)
		}
	}
	if !s.IsSolved() {
		t.Error("state should be solved after reversing the scramble")
		t.Log(s.String())
	}
}

func TestPaintInvalidArguments(t *testing.T) {
	s := mustNew(t, 3)
	bad := []types.Move{
		{Axis: types.AxisX, Layer: 3, Direction: types.Forward},
		{Axis: types.AxisY, Layer: -1, Direction: types.Forward},
		{Axis: types.Axis('w'), Layer: 0, Direction: types.Forward},
		{Axis: types.AxisZ, Layer: 0, Direction: 0},
	}
	for _, m := range bad {
		if err := s.Paint(m); !errors.Is(err, types.ErrInvalidArgument) {
			t.Errorf("Paint(%+v) error = %v, want ErrInvalidArgument", m, err)
		}
	}
	if s.Len() != 27 {
		t.Errorf("failed paints left %d cubes in the body", s.Len())
	}
}

func TestRandomRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		for _, r := range [][2]float64{{100, 101}, {1, 10}, {-10, 0}} {
			got, err := RandomRange(r[0], r[1])
			if err != nil {
				t.Fatalf("RandomRange(%v): %v", r, err)
			}
			if float64(got) < r[0] || float64(got) > r[1] {
				t.Errorf("RandomRange(%v) = %d", r, got)
			}
		}
	}
}

func TestRandomRangeNonInteger(t *testing.T) {
	got, err := RandomRange(0.5, 1.5)
	if err != nil || got != 1 {
		t.Errorf("RandomRange(0.5, 1.5) = %d, %v; want 1", got, err)
	}
}

func TestRandomRangeInvalid(t *testing.T) {
	_, err := RandomRange(1, 0)
	if !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("RandomRange(1, 0) error = %v, want ErrInvalidArgument", err)
	}
	if err == nil || !strings.Contains(err.Error(), "Invalid range") {
		t.Errorf("RandomRange(1, 0) error = %v, want Invalid range", err)
	}
}

func TestShufflerIsDeterministic(t *testing.T) {
	a := NewShuffler(3, 7).Moves(40)
	b := NewShuffler(3, 7).Moves(40)
	if types.FormatMoves(a) != types.FormatMoves(b) {
		t.Error("same seed should give the same moves")
	}

	s := mustNew(t, 3)
	dirs := map[types.Direction]int{}
	for _, m := range a {
		if err := s.Validate(m); err != nil {
			t.Errorf("shuffler produced invalid move %v: %v", m, err)
		}
		dirs[m.Direction]++
	}
	if dirs[types.Forward] == 0 || dirs[types.Backward] == 0 {
		t.Errorf("shuffler should produce both directions, got %v", dirs)
	}
}

func TestNetOfSolvedCube(t *testing.T) {
	s := mustNew(t, 3)
	net := s.Net()
	for _, f := range Faces {
		for _, row := range net[f] {
			for _, c := range row {
				if c != s.Palette()[f] {
					t.Errorf("%v face has %v, want %v", f, c, s.Palette()[f])
				}
			}
		}
	}
	if !strings.Contains(s.String(), "front") {
		t.Error("String should label the faces")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := mustNew(t, 3)
	clone := s.Clone()
	_ = s.Paint(types.Move{Axis: types.AxisZ, Layer: 1, Direction: types.Forward})
	if !clone.IsSolved() {
		t.Error("painting the original should not change the clone")
	}
}

func TestColorHex(t *testing.T) {
	if Green.Hex() != "#009b48" {
		t.Errorf("Green.Hex() = %q", Green.Hex())
	}
	if None.Hex() != "" {
		t.Errorf("None.Hex() = %q", None.Hex())
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#009b48", Green, false},
		{"ffd500", Yellow, false},
		{" #FFFFFF ", White, false},
		{"#fff", None, true},
		{"#zzzzzz", None, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
