package align

import (
	"testing"

	"github.com/Faultbox/fezlike/internal/facing"
	"github.com/Faultbox/fezlike/pkg/math"
)

type body struct {
	pos math.Vec3
}

func (b *body) Position() math.Vec3      { return b.pos }
func (b *body) SetPosition(p math.Vec3) { b.pos = p }

type motion struct {
	jumping bool
	facing  facing.Direction
	angle   float32
	calls   int
}

func (m *motion) Jumping() bool { return m.jumping }

func (m *motion) SetOrientation(d facing.Direction, angle float32) {
	m.facing = d
	m.angle = angle
	m.calls++
}

type cells []math.Vec3

func (c cells) Positions() []math.Vec3 { return c }

type handle struct {
	pos       math.Vec3
	destroyed bool
}

func (h *handle) Position() math.Vec3 { return h.pos }
func (h *handle) Destroy()            { h.destroyed = true }

type factory struct {
	spawned []*handle
}

func (f *factory) Spawn(pos math.Vec3) Handle {
	h := &handle{pos: pos}
	f.spawned = append(f.spawned, h)
	return h
}

func (f *factory) live() int {
	n := 0
	for _, h := range f.spawned {
		if !h.destroyed {
			n++
		}
	}
	return n
}

type fixture struct {
	engine  *Engine
	body    *body
	motion  *motion
	factory *factory
}

func newFixture(player math.Vec3, level, buildings cells) *fixture {
	return newFixtureUnit(player, level, buildings, 1)
}

func newFixtureUnit(player math.Vec3, level, buildings cells, unit float32) *fixture {
	f := &fixture{
		body:    &body{pos: player},
		motion:  &motion{},
		factory: &factory{},
	}
	f.engine = New(Deps{
		Body:      f.body,
		Motion:    f.motion,
		Level:     level,
		Buildings: buildings,
		Factory:   f.factory,
	}, unit, nil)
	return f
}

func v(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

func samePositions(got, want []math.Vec3) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRebuildProjectsToPlayerDepth(t *testing.T) {
	f := newFixture(v(0, 1, 3), cells{v(0, 0, 5)}, nil)
	f.engine.Start()

	want := []math.Vec3{v(0, 0, 3)}
	if got := f.engine.Platforms(); !samePositions(got, want) {
		t.Errorf("Platforms() = %v, want %v", got, want)
	}
	if f.motion.calls != 1 || f.motion.facing != facing.Front {
		t.Errorf("Start should hand Front to the motion controller, got %v after %d calls", f.motion.facing, f.motion.calls)
	}
}

func TestRebuildUsesRoundedDepth(t *testing.T) {
	f := newFixture(v(0, 1, 2.6), cells{v(0, 0, 5)}, nil)
	f.engine.Start()

	if f.engine.Depth() != 3 {
		t.Fatalf("Depth() = %v, want 3", f.engine.Depth())
	}
	if got := f.engine.Platforms(); !samePositions(got, []math.Vec3{v(0, 0, 3)}) {
		t.Errorf("Platforms() = %v", got)
	}
}

func TestDepthRoundsToGridLine(t *testing.T) {
	tests := []struct {
		z    float32
		want float32
	}{
		{2.9, 2},
		{3.1, 4},
		{5, 4}, // 2.5 cells, ties to even
		{-2.9, -2},
		{0.4, 0},
	}

	for _, tt := range tests {
		f := newFixtureUnit(v(0, 10, tt.z), cells{}, nil, 2)
		if got := f.engine.Depth(); got != tt.want {
			t.Errorf("Depth() at z=%v with unit 2 = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestRebuildStaysOnGridAfterRotation(t *testing.T) {
	level := cells{v(0, 0, 0), v(2, 0, 0), v(4, 0, 4)}
	f := newFixtureUnit(v(2.9, 2, 0), level, nil, 2)
	f.engine.Start()
	f.engine.OnRotate(facing.Right)

	if f.engine.Depth() != 2 {
		t.Fatalf("Depth() = %v, want 2", f.engine.Depth())
	}
	want := []math.Vec3{v(2, 0, 4)}
	got := f.engine.Platforms()
	if !samePositions(got, want) {
		t.Fatalf("Platforms() = %v, want %v", got, want)
	}
	for _, p := range got {
		for _, c := range []float32{p.X, p.Y, p.Z} {
			if c != math.RoundEven(c/2)*2 {
				t.Errorf("invisible platform %v is off the grid", p)
			}
		}
	}
}

func TestRebuildIdempotent(t *testing.T) {
	f := newFixture(v(0, 1, 3), cells{v(0, 0, 5), v(1, 0, 5)}, nil)
	f.engine.Start()
	before := len(f.factory.spawned)

	if f.engine.Rebuild(false) {
		t.Error("unforced rebuild with unchanged facing and depth should be a no-op")
	}
	if len(f.factory.spawned) != before || f.factory.live() != before {
		t.Errorf("platform set changed: spawned %d live %d, want %d", len(f.factory.spawned), f.factory.live(), before)
	}

	// Moving within the same rounded depth still does nothing.
	f.body.pos.Z = 3.3
	if f.engine.Rebuild(false) {
		t.Error("depth 3.3 rounds to 3, rebuild should be skipped")
	}

	f.body.pos.Z = 4
	if !f.engine.Rebuild(false) {
		t.Error("depth change should trigger a rebuild")
	}
	if f.factory.live() != 2 {
		t.Errorf("live platforms = %d, want 2", f.factory.live())
	}
	for _, h := range f.factory.spawned[:before] {
		if !h.destroyed {
			t.Errorf("old platform at %v was not destroyed", h.pos)
		}
	}
}

func TestRebuildNeverDuplicates(t *testing.T) {
	level := cells{
		v(0, 0, 3), // already at the player's depth
		v(0, 0, 5), // projects onto the real cell above
		v(2, 0, 5),
		v(2, 0, 7), // projects onto the same spot as the previous cell
	}
	f := newFixture(v(0, 1, 3), level, nil)
	f.engine.Start()

	want := []math.Vec3{v(2, 0, 3)}
	got := f.engine.Platforms()
	if !samePositions(got, want) {
		t.Fatalf("Platforms() = %v, want %v", got, want)
	}

	for _, p := range got {
		for _, c := range level {
			if p == c {
				t.Errorf("invisible platform duplicates level cell %v", c)
			}
		}
	}
}

func TestRebuildRespectsObstruction(t *testing.T) {
	level := cells{v(0, 0, 5)}

	tests := []struct {
		name      string
		player    math.Vec3
		buildings cells
		want      int
	}{
		{"front building toward camera", v(0, 1, 3), cells{v(0, 0, 1)}, 0},
		{"front building behind", v(0, 1, 3), cells{v(0, 0, 4)}, 1},
		{"front building same depth", v(0, 1, 3), cells{v(0, 0, 3)}, 1},
		{"front building other column", v(0, 1, 3), cells{v(1, 0, 1)}, 1},
		{"front building other row", v(0, 1, 3), cells{v(0, 1, 1)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.player, level, tt.buildings)
			f.engine.Start()
			if got := len(f.engine.Platforms()); got != tt.want {
				t.Errorf("platforms = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRebuildObstructionPerFacing(t *testing.T) {
	// Player at depth 0 on every axis; real cell at (3,0,3).
	level := cells{v(3, 0, 3)}

	tests := []struct {
		rotate    []Rotation
		building  math.Vec3
		candidate math.Vec3
	}{
		{[]Rotation{RotateRight}, v(1, 0, 3), v(0, 0, 3)},             // Right: camera +X
		{[]Rotation{RotateRight, RotateRight}, v(3, 0, 1), v(3, 0, 0)}, // Back: camera +Z
		{[]Rotation{RotateLeft}, v(-1, 0, 3), v(0, 0, 3)},              // Left: camera -X
	}

	for _, tt := range tests {
		open := newFixture(v(0, 5, 0), level, nil)
		blocked := newFixture(v(0, 5, 0), level, cells{tt.building})
		for _, fx := range []*fixture{open, blocked} {
			fx.engine.Start()
			for _, r := range tt.rotate {
				fx.engine.Update(r)
			}
		}

		dir := open.engine.Facing()
		if got := open.engine.Platforms(); !samePositions(got, []math.Vec3{tt.candidate}) {
			t.Errorf("%v without building: platforms = %v, want [%v]", dir, got, tt.candidate)
		}
		if got := blocked.engine.Platforms(); len(got) != 0 {
			t.Errorf("%v with building %v: platforms = %v, want none", dir, tt.building, got)
		}
	}
}

func TestOnTickSnapsFromInvisiblePlatform(t *testing.T) {
	f := newFixture(v(0, 1, 3), cells{v(0, 0, 5)}, nil)
	f.engine.Start()
	if !f.engine.OnInvisiblePlatform() {
		t.Fatal("player should be standing on the invisible platform at (0,0,3)")
	}
	spawnedBefore := len(f.factory.spawned)

	if !f.engine.OnTick() {
		t.Fatal("OnTick should report a depth change")
	}
	if f.body.pos.Z != 5 {
		t.Errorf("player depth = %v, want 5", f.body.pos.Z)
	}
	if !f.factory.spawned[0].destroyed {
		t.Error("rebuild should destroy the old invisible platform")
	}
	// At depth 5 the projection coincides with the real cell.
	if len(f.factory.spawned) != spawnedBefore || len(f.engine.Platforms()) != 0 {
		t.Errorf("platforms after snap = %v", f.engine.Platforms())
	}
}

func TestOnTickSkippedWhileJumping(t *testing.T) {
	f := newFixture(v(0, 1, 3), cells{v(0, 0, 5)}, nil)
	f.engine.Start()
	f.motion.jumping = true

	if f.engine.OnTick() {
		t.Error("OnTick should do nothing while jumping")
	}
	if f.body.pos.Z != 3 {
		t.Errorf("player moved while jumping: %v", f.body.pos)
	}
}

func TestOnTickMovesTowardCameraFirstMatch(t *testing.T) {
	// Front camera is on -Z. Both z=2 and z=1 are closer than 5; the scan
	// takes the first in storage order, not the nearest to the camera.
	level := cells{v(0, 0, 5), v(0, 0, 2), v(0, 0, 1)}
	f := newFixture(v(0, 1, 5), level, nil)
	f.engine.Start()

	if !f.engine.OnTick() {
		t.Fatal("expected a depth change")
	}
	if f.body.pos.Z != 2 {
		t.Errorf("player depth = %v, want 2", f.body.pos.Z)
	}

	// Next tick continues toward the camera.
	f.engine.OnTick()
	if f.body.pos.Z != 1 {
		t.Errorf("player depth = %v, want 1", f.body.pos.Z)
	}

	// Nothing closer left.
	if f.engine.OnTick() {
		t.Error("no platform is closer to the camera, OnTick should not change depth")
	}
}

func TestOnTickMovesTowardCameraPerFacing(t *testing.T) {
	// The player stands on the cell away from the camera; the other cell on
	// the same walking line is closer to the camera and listed second.
	tests := []struct {
		rotate []Rotation
		far    math.Vec3
		near   math.Vec3
	}{
		{nil, v(0, 0, 2), v(0, 0, -2)},                                  // Front: camera -Z
		{[]Rotation{RotateRight}, v(-2, 0, 0), v(2, 0, 0)},              // Right: camera +X
		{[]Rotation{RotateRight, RotateRight}, v(0, 0, -2), v(0, 0, 2)}, // Back: camera +Z
		{[]Rotation{RotateLeft}, v(2, 0, 0), v(-2, 0, 0)},               // Left: camera -X
	}

	for _, tt := range tests {
		f := newFixture(tt.far.Add(v(0, 1, 0)), cells{tt.far, tt.near}, nil)
		f.engine.Start()
		for _, r := range tt.rotate {
			f.engine.Update(r)
		}
		dir := f.engine.Facing()
		if f.engine.OnInvisiblePlatform() {
			t.Fatalf("%v: setup left the player on an invisible platform", dir)
		}

		if !f.engine.OnTick() {
			t.Errorf("%v: OnTick did not move the player toward the camera", dir)
		}
		if want := tt.near.Add(v(0, 1, 0)); f.body.pos != want {
			t.Errorf("%v: player at %v, want %v", dir, f.body.pos, want)
		}

		// From the near cell nothing is closer.
		if f.engine.OnTick() {
			t.Errorf("%v: moved away from the camera to %v", dir, f.body.pos)
		}
	}
}

func TestOnTickIgnoresCellsAwayFromCamera(t *testing.T) {
	f := newFixture(v(0, 1, 1), cells{v(0, 0, 1), v(0, 0, 4)}, nil)
	f.engine.Start()

	if f.engine.OnTick() {
		t.Errorf("moved away from the camera to %v", f.body.pos)
	}
}

func TestOnRotateSnapsBeforeFacingChange(t *testing.T) {
	level := cells{v(0, 0, 5), v(4, 0, 0)}
	f := newFixture(v(0, 1, 3), level, nil)
	f.engine.Start()
	if !f.engine.OnInvisiblePlatform() {
		t.Fatal("setup: player should be on an invisible platform")
	}

	// Mid-jump the tick logic is skipped, so only the rotation can snap.
	f.motion.jumping = true
	f.engine.Update(RotateRight)

	// Judged with Right's walking axis (Z) the player at z=3 is not over
	// (0,0,5), so z=5 proves the snap used the Front facing.
	if f.body.pos.Z != 5 {
		t.Errorf("player depth = %v, want 5", f.body.pos.Z)
	}
	if f.engine.Facing() != facing.Right {
		t.Errorf("facing = %v, want right", f.engine.Facing())
	}
	if f.motion.facing != facing.Right || f.motion.angle != -90 {
		t.Errorf("motion got %v/%v, want right/-90", f.motion.facing, f.motion.angle)
	}

	// Rebuild projects along X to the player's x = 0.
	want := []math.Vec3{v(0, 0, 0)}
	if got := f.engine.Platforms(); !samePositions(got, want) {
		t.Errorf("Platforms() = %v, want %v", got, want)
	}
}

func TestRotationAngles(t *testing.T) {
	f := newFixture(v(0, 10, 0), cells{}, nil)
	f.engine.Start()

	steps := []struct {
		cmd    Rotation
		facing facing.Direction
		angle  float32
	}{
		{RotateRight, facing.Right, -90},
		{RotateRight, facing.Back, -180},
		{RotateLeft, facing.Right, -90},
		{RotateLeft, facing.Front, 0},
		{RotateLeft, facing.Left, 90},
		{RotateNone, facing.Left, 90},
	}

	for i, s := range steps {
		f.engine.Update(s.cmd)
		if f.engine.Facing() != s.facing || f.engine.Angle() != s.angle {
			t.Errorf("step %d: facing %v angle %v, want %v %v", i, f.engine.Facing(), f.engine.Angle(), s.facing, s.angle)
		}
	}

	f.engine.OnRotate(facing.Right)
	if f.engine.Angle() != -90 {
		t.Errorf("half turn from Left to Right: angle = %v, want -90", f.engine.Angle())
	}
}

func TestContactTest(t *testing.T) {
	tests := []struct {
		name   string
		player math.Vec3
		want   bool
	}{
		{"resting", v(0, 1, 3), true},
		{"upper bound", v(0, 1.2, 3), true},
		{"too high", v(0, 1.3, 3), false},
		{"level with cell", v(0, 0, 3), false},
		{"below cell", v(0, -0.5, 3), false},
		{"edge overlap", v(0.9, 1, 3), true},
		{"off the side", v(1, 1, 3), false},
		{"off in depth", v(0, 1, 4), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(v(0, 1, 3), cells{v(0, 0, 5)}, nil)
			f.engine.Start()
			f.body.pos = tt.player
			if got := f.engine.OnInvisiblePlatform(); got != tt.want {
				t.Errorf("OnInvisiblePlatform() at %v = %v, want %v", tt.player, got, tt.want)
			}
		})
	}
}

func TestReturnToStartForcesRebuild(t *testing.T) {
	f := newFixture(v(0, 1, 3), cells{v(0, 0, 5)}, nil)
	f.engine.Start()

	f.engine.ReturnToStart()
	if len(f.factory.spawned) != 2 || f.factory.live() != 1 {
		t.Errorf("spawned %d live %d, want 2 and 1", len(f.factory.spawned), f.factory.live())
	}
}

func TestFullTurnReturnsToFront(t *testing.T) {
	f := newFixture(v(0, 10, 0), cells{}, nil)
	f.engine.Start()

	for i := 0; i < facing.Count; i++ {
		f.engine.RotateRight()
	}
	if f.engine.Facing() != facing.Front || f.engine.Angle() != -360 {
		t.Errorf("after four right turns: facing %v angle %v, want Front -360", f.engine.Facing(), f.engine.Angle())
	}
	if f.motion.facing != facing.Front || f.motion.angle != -360 {
		t.Errorf("controller told %v %v, want Front -360", f.motion.facing, f.motion.angle)
	}

	f.engine.RotateLeft()
	if f.engine.Facing() != facing.Left {
		t.Errorf("RotateLeft from Front = %v, want Left", f.engine.Facing())
	}
}
