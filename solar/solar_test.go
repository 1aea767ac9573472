package solar

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"solar-system/math"
	"solar-system/scene"
)

// recordingStore is a TextureStore that hands out increasing IDs and can be
// told to fail on a given upload.
type recordingStore struct {
	nextID   uint32
	live     map[uint32]string
	uploads  int
	deletes  int
	failOn   int // 1-based upload number; 0 disables
	failWith error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{live: map[uint32]string{}}
}

func (s *recordingStore) Upload(tex *scene.Texture) error {
	s.uploads++
	if s.failOn != 0 && s.uploads == s.failOn {
		return s.failWith
	}
	s.nextID++
	tex.ID = s.nextID
	s.live[tex.ID] = tex.Name
	return nil
}

func (s *recordingStore) Delete(tex *scene.Texture) {
	s.deletes++
	delete(s.live, tex.ID)
	tex.ID = 0
}

func writeBMP(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// assetDir writes every file the catalog references.
func assetDir(t *testing.T, c Catalog) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range c.Files() {
		writeBMP(t, filepath.Join(dir, f), color.RGBA{200, 200, 200, 255})
	}
	return dir
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadedSystem(t *testing.T) (*System, *recordingStore) {
	t.Helper()
	c := DefaultCatalog()
	store := newRecordingStore()
	sys, err := NewSystem(c, assetDir(t, c), store, quietLogger())
	require.NoError(t, err)
	require.NoError(t, sys.Load())
	return sys, store
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())

	names := make([]string, len(c.Bodies))
	for i, b := range c.Bodies {
		names[i] = b.Name
	}
	assert.Equal(t, []string{"Sun", "Mercury", "Venus", "Earth", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune"}, names)
	assert.Equal(t, "neptunemap.bmp", c.Bodies[8].Diffuse)
	assert.Equal(t, "milkyway.bmp", c.Skybox)
	assert.Len(t, c.Files(), 13)
}

func TestCatalogValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Catalog)
	}{
		{"empty", func(c *Catalog) { c.Bodies = nil }},
		{"planet first", func(c *Catalog) { c.Bodies[0].Kind = KindPlanet }},
		{"orbiting sun", func(c *Catalog) { c.Bodies[0].OrbitRadius = 1 }},
		{"duplicate name", func(c *Catalog) { c.Bodies[2].Name = "mercury" }},
		{"missing name", func(c *Catalog) { c.Bodies[4].Name = "" }},
		{"no diffuse", func(c *Catalog) { c.Bodies[3].Diffuse = "" }},
		{"zero scale", func(c *Catalog) { c.Bodies[5].Scale = 0 }},
		{"second sun", func(c *Catalog) { c.Bodies[6].Kind = KindSun }},
		{"zero radius", func(c *Catalog) { c.Bodies[7].OrbitRadius = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCatalog()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidCatalog)
		})
	}

	empty := Catalog{}
	assert.ErrorIs(t, empty.Validate(), ErrNoBodies)
}

func TestLoad(t *testing.T) {
	sys, store := loadedSystem(t)

	assert.Equal(t, 9, sys.Len())
	assert.Len(t, store.live, 13)

	sun, err := sys.Sun()
	require.NoError(t, err)
	assert.Equal(t, KindSun, sun.Kind)
	assert.Equal(t, math.Vec3Zero, sun.Position)

	earth := sys.Earth()
	require.NotNil(t, earth)
	assert.Equal(t, "Earth", earth.Name)
	assert.True(t, earth.Detailed())
	assert.True(t, earth.HasClouds())
	assert.True(t, earth.Clouds.Uploaded())

	mars, idx := sys.Find("MARS")
	require.NotNil(t, mars)
	assert.Equal(t, 4, idx)
	assert.False(t, mars.Detailed())
	assert.InDelta(t, mars.OrbitRadius, mars.Position.Length(), 1e-4, "positions are set on load")

	assert.NotNil(t, sys.Skybox())
	assert.Error(t, sys.Load(), "loading twice is refused")
}

func TestLoadSharesTextureFiles(t *testing.T) {
	c := DefaultCatalog()
	c.Bodies[8].Diffuse = c.Bodies[1].Diffuse
	store := newRecordingStore()
	sys, err := NewSystem(c, assetDir(t, c), store, quietLogger())
	require.NoError(t, err)
	require.NoError(t, sys.Load())

	assert.Same(t, sys.Body(1).Diffuse, sys.Body(8).Diffuse)
	assert.Equal(t, 12, store.uploads)
}

func TestLoadMissingDiffuseReleasesEverything(t *testing.T) {
	c := DefaultCatalog()
	dir := assetDir(t, c)
	require.NoError(t, os.Remove(filepath.Join(dir, "saturnmap.bmp")))

	store := newRecordingStore()
	sys, err := NewSystem(c, dir, store, quietLogger())
	require.NoError(t, err)

	err = sys.Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "Saturn")
	assert.Equal(t, 0, sys.Len())
	assert.Nil(t, sys.Skybox())
	assert.Empty(t, store.live, "uploaded textures are deleted")
	assert.Equal(t, store.uploads, store.deletes)
}

func TestLoadUploadFailure(t *testing.T) {
	c := DefaultCatalog()
	store := newRecordingStore()
	store.failOn = 3
	store.failWith = errors.New("out of memory")
	sys, err := NewSystem(c, assetDir(t, c), store, quietLogger())
	require.NoError(t, err)

	err = sys.Load()
	assert.ErrorIs(t, err, store.failWith)
	assert.Empty(t, store.live)
	assert.Equal(t, 0, sys.Len())
}

func TestLoadMissingOptionalTexture(t *testing.T) {
	c := DefaultCatalog()
	dir := assetDir(t, c)
	require.NoError(t, os.Remove(filepath.Join(dir, "earthnormal1k.bmp")))

	sys, err := NewSystem(c, dir, newRecordingStore(), quietLogger())
	require.NoError(t, err)
	require.NoError(t, sys.Load())

	earth := sys.Earth()
	assert.Nil(t, earth.Normal)
	assert.NotNil(t, earth.Specular)
	assert.True(t, earth.Detailed())
}

func TestCloudAlphaFromLuminance(t *testing.T) {
	c := DefaultCatalog()
	dir := assetDir(t, c)
	writeBMP(t, filepath.Join(dir, "earthcloudmap.bmp"), color.RGBA{0, 0, 0, 255})

	sys, err := NewSystem(c, dir, newRecordingStore(), quietLogger())
	require.NoError(t, err)
	require.NoError(t, sys.Load())

	clouds := sys.Earth().Clouds
	assert.Equal(t, byte(0), clouds.Pixels[3], "black cloud pixels are transparent")
	assert.Equal(t, byte(255), sys.Earth().Diffuse.Pixels[3])
}

func TestReload(t *testing.T) {
	sys, store := loadedSystem(t)
	sys.Update(10)
	oldEarth := sys.Earth()

	require.NoError(t, sys.Reload())
	assert.Equal(t, 9, sys.Len())
	assert.NotSame(t, oldEarth, sys.Earth())
	assert.False(t, oldEarth.Diffuse.Uploaded(), "old textures are deleted")
	assert.Len(t, store.live, 13)
	assert.Equal(t, 26, store.uploads)
	assert.Equal(t, 13, store.deletes)
}

func TestReloadFailureLeavesEmpty(t *testing.T) {
	c := DefaultCatalog()
	dir := assetDir(t, c)
	store := newRecordingStore()
	sys, err := NewSystem(c, dir, store, quietLogger())
	require.NoError(t, err)
	require.NoError(t, sys.Load())

	require.NoError(t, os.Remove(filepath.Join(dir, "sunmap.bmp")))
	require.Error(t, sys.Reload())
	assert.Equal(t, 0, sys.Len())
	assert.Empty(t, store.live)
	_, err = sys.Sun()
	assert.ErrorIs(t, err, ErrNoBodies)
	sys.Update(1) // no bodies, no panic

	writeBMP(t, filepath.Join(dir, "sunmap.bmp"), color.RGBA{255, 200, 0, 255})
	require.NoError(t, sys.Reload())
	assert.Equal(t, 9, sys.Len())
}

func TestUpdateOrbits(t *testing.T) {
	sys, _ := loadedSystem(t)
	earth := sys.Earth()
	start := earth.OrbitAngle

	sys.Update(2)
	want := math.WrapAngle(start + earth.OrbitSpeed*2)
	assert.InDelta(t, want, earth.OrbitAngle, 1e-5)
	expected := math.FromPolarXZ(earth.OrbitRadius, want)
	assert.True(t, earth.Position.ApproxEqual(expected, 1e-4), "got %v want %v", earth.Position, expected)
	assert.Equal(t, float32(0), earth.Position.Y)
}

func TestUpdateSunStaysPut(t *testing.T) {
	sys, _ := loadedSystem(t)
	sun := sys.Body(0)

	for i := 0; i < 100; i++ {
		sys.Update(0.5)
	}
	assert.Equal(t, math.Vec3Zero, sun.Position)
	assert.Equal(t, float32(0), sun.OrbitAngle)
	assert.NotZero(t, sun.Spin, "the sun still spins")
}

func TestUpdateKeepsAnglesWrapped(t *testing.T) {
	sys, _ := loadedSystem(t)
	for i := 0; i < 1000; i++ {
		sys.Update(1.7)
	}
	for _, b := range sys.Bodies() {
		for _, a := range []float32{b.OrbitAngle, b.Spin, b.CloudSpin} {
			assert.GreaterOrEqual(t, a, float32(0), b.Name)
			assert.Less(t, a, 2*math32.Pi, b.Name)
		}
		if b.Kind == KindPlanet {
			assert.InDelta(t, b.OrbitRadius, b.Position.Length(), 1e-3, b.Name)
		}
	}
}

func TestCloudSpinIndependent(t *testing.T) {
	sys, _ := loadedSystem(t)
	earth := sys.Earth()
	mars, _ := sys.Find("Mars")

	sys.Update(0.5)
	assert.InDelta(t, earth.CloudSpinSpeed*0.5, earth.CloudSpin, 1e-5)
	assert.NotEqual(t, earth.Spin, earth.CloudSpin)
	assert.Zero(t, mars.CloudSpin, "bodies without clouds keep a zero cloud phase")
}

func TestModelMatrix(t *testing.T) {
	b := &Body{Scale: math.Splat3(0.5), Position: math.NewVec3(3, 0, 0)}
	m := b.ModelMatrix()

	assert.True(t, m.Translation().ApproxEqual(b.Position, 1e-6))
	top := m.MulVec3(math.Vec3Up)
	assert.True(t, top.ApproxEqual(math.NewVec3(3, 0.5, 0), 1e-6), "got %v", top)

	clouds := b.CloudMatrix().MulVec3(math.Vec3Up)
	assert.InDelta(t, 0.5*CloudShell, clouds.Y, 1e-6)
}

func TestModelMatrixTilt(t *testing.T) {
	b := &Body{Scale: math.Vec3One, Tilt: math32.Pi / 2}
	pole := b.ModelMatrix().MulVec3(math.Vec3Up)
	assert.True(t, pole.ApproxEqual(math.NewVec3(-1, 0, 0), 1e-6), "tilted pole %v", pole)
}

func TestTrackedAccessors(t *testing.T) {
	sys, _ := loadedSystem(t)
	var tracked scene.Tracked = sys

	assert.Equal(t, 9, tracked.Len())
	assert.Equal(t, sys.Body(5).Position, tracked.PositionOf(5))
	assert.Equal(t, float32(0.6), tracked.RadiusOf(5))
	assert.Equal(t, "Jupiter", sys.Name(5))
	assert.Equal(t, "", sys.Name(42))
	assert.Nil(t, sys.Body(-1))
}

func TestNewSystemRejectsInvalidCatalog(t *testing.T) {
	_, err := NewSystem(Catalog{}, t.TempDir(), newRecordingStore(), nil)
	assert.ErrorIs(t, err, ErrNoBodies)
}

func TestSetCatalog(t *testing.T) {
	sys, _ := loadedSystem(t)

	small := DefaultCatalog()
	small.Bodies = small.Bodies[:3]
	require.NoError(t, sys.SetCatalog(small))
	require.NoError(t, sys.Reload())
	assert.Equal(t, 3, sys.Len())
	assert.Nil(t, sys.Earth(), "no detailed body and no Earth")

	assert.Error(t, sys.SetCatalog(Catalog{}))
}
