package solar

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"solar-system/scene"
)

// TextureStore moves textures to and from the GPU. The OpenGL backend
// implements it; Upload must set the texture's ID and Delete must clear it.
type TextureStore interface {
	Upload(tex *scene.Texture) error
	Delete(tex *scene.Texture)
}

// textureSet loads each file at most once per load and remembers everything
// it uploaded so a failed load can be undone.
type textureSet struct {
	dir    string
	store  TextureStore
	logger *slog.Logger

	byFile   map[string]*scene.Texture
	uploaded []*scene.Texture
}

func newTextureSet(dir string, store TextureStore, logger *slog.Logger) *textureSet {
	return &textureSet{
		dir:    dir,
		store:  store,
		logger: logger,
		byFile: map[string]*scene.Texture{},
	}
}

// get decodes and uploads file, or returns the copy already loaded.
func (ts *textureSet) get(file string, prepare func(*scene.Texture)) (*scene.Texture, error) {
	if tex, ok := ts.byFile[file]; ok {
		return tex, nil
	}
	tex, err := scene.LoadTexture(filepath.Join(ts.dir, file))
	if err != nil {
		return nil, err
	}
	if prepare != nil {
		prepare(tex)
	}
	if err := ts.store.Upload(tex); err != nil {
		return nil, fmt.Errorf("upload %q: %w", file, err)
	}
	ts.byFile[file] = tex
	ts.uploaded = append(ts.uploaded, tex)
	ts.logger.Debug("texture loaded", "file", file, "width", tex.Width, "height", tex.Height)
	return tex, nil
}

// optional is get for textures a body can do without: failures are logged
// and yield nil.
func (ts *textureSet) optional(body, role, file string, prepare func(*scene.Texture)) *scene.Texture {
	if file == "" {
		return nil
	}
	tex, err := ts.get(file, prepare)
	if err != nil {
		ts.logger.Warn("optional texture unavailable", "body", body, "role", role, "error", err)
		return nil
	}
	return tex
}

// release deletes every texture uploaded through this set.
func (ts *textureSet) release() {
	for _, tex := range ts.uploaded {
		ts.store.Delete(tex)
	}
	ts.uploaded = nil
	ts.byFile = map[string]*scene.Texture{}
}
