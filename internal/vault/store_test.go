package vault

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnrirwin/fpviraq/internal/models"
	"github.com/johnrirwin/fpviraq/internal/testutil"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStore_AddDefaults(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := Open(ctx, backend, testutil.NullLogger())

	p, err := s.Add(ctx, models.CreateProjectParams{Name: "  Night Ripper  "})
	require.NoError(t, err)

	assert.Equal(t, "Night Ripper", p.Name)
	assert.Equal(t, models.DefaultProjectType, p.Type)
	assert.Equal(t, models.ProjectStatusPlanning, p.Status)
	assert.Zero(t, p.Parts)
	assert.Zero(t, p.Cost)
	assert.NotZero(t, p.ID)

	saved := backend.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, p, saved[0])
}

func TestStore_AddRequiresName(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryBackend(), testutil.NullLogger())

	_, err := s.Add(ctx, models.CreateProjectParams{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Empty(t, s.List().Projects)
}

func TestStore_IDsStayUnique(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryBackend(), testutil.NullLogger())
	s.now = fixedClock(time.UnixMilli(1_700_000_000_000))

	a, err := s.Add(ctx, models.CreateProjectParams{Name: "a"})
	require.NoError(t, err)
	b, err := s.Add(ctx, models.CreateProjectParams{Name: "b"})
	require.NoError(t, err)

	assert.Equal(t, int64(1_700_000_000_000), a.ID)
	assert.Equal(t, a.ID+1, b.ID)
}

func TestStore_ListOrderAndTotals(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryBackend(), testutil.NullLogger())

	for _, name := range []string{"first", "second", "third"} {
		_, err := s.Add(ctx, models.CreateProjectParams{Name: name, Cost: 100})
		require.NoError(t, err)
	}

	list := s.List()
	require.Len(t, list.Projects, 3)
	assert.Equal(t, "first", list.Projects[0].Name)
	assert.Equal(t, "third", list.Projects[2].Name)
	assert.Equal(t, 3, list.TotalCount)
	assert.InDelta(t, 300, list.TotalCost, 0.001)
}

func TestStore_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := Open(ctx, backend, testutil.NullLogger())

	p, err := s.Add(ctx, models.CreateProjectParams{Name: "build"})
	require.NoError(t, err)

	status := models.ProjectStatusBuilding
	parts := 7
	updated, err := s.Update(ctx, p.ID, models.UpdateProjectParams{Status: &status, Parts: &parts})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusBuilding, updated.Status)
	assert.Equal(t, 7, updated.Parts)
	assert.Equal(t, "build", updated.Name)

	got, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	empty := ""
	_, err = s.Update(ctx, p.ID, models.UpdateProjectParams{Name: &empty})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = s.Update(ctx, 42, models.UpdateProjectParams{Status: &status})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	require.NoError(t, s.Remove(ctx, p.ID))
	assert.Empty(t, backend.Saved())
	assert.ErrorIs(t, s.Remove(ctx, p.ID), ErrProjectNotFound)
}

func TestStore_LoadFailureStartsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend(models.Project{ID: 1, Name: "hidden"})
	backend.LoadErr = errors.New("disk on fire")

	s := Open(ctx, backend, testutil.NullLogger())
	assert.Empty(t, s.List().Projects)
}

func TestStore_SaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := Open(ctx, backend, testutil.NullLogger())

	kept, err := s.Add(ctx, models.CreateProjectParams{Name: "kept"})
	require.NoError(t, err)

	backend.SaveErr = errors.New("read-only")

	_, err = s.Add(ctx, models.CreateProjectParams{Name: "lost"})
	assert.Error(t, err)
	assert.Error(t, s.Remove(ctx, kept.ID))

	list := s.List()
	require.Len(t, list.Projects, 1)
	assert.Equal(t, "kept", list.Projects[0].Name)
}

func TestStore_OpenKeepsExistingIDsAhead(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(time.Hour).UnixMilli()
	s := Open(ctx, NewMemoryBackend(models.Project{ID: future, Name: "from the future"}), testutil.NullLogger())

	p, err := s.Add(ctx, models.CreateProjectParams{Name: "now"})
	require.NoError(t, err)
	assert.Equal(t, future+1, p.ID)
}

func TestFileBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "vault")
	backend := NewFileBackend(dir, "")
	assert.Equal(t, filepath.Join(dir, "drone-edu-storage.json"), backend.Path())

	projects, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	s := Open(ctx, backend, testutil.NullLogger())
	_, err = s.Add(ctx, models.CreateProjectParams{Name: "Cinewhoop", Type: "Cinewhoop 3\"", Cost: 250})
	require.NoError(t, err)

	reopened := Open(ctx, NewFileBackend(dir, ""), testutil.NullLogger())
	list := reopened.List()
	require.Len(t, list.Projects, 1)
	assert.Equal(t, "Cinewhoop", list.Projects[0].Name)
	assert.Equal(t, "Cinewhoop 3\"", list.Projects[0].Type)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files left behind")
}

func TestFileBackend_CorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drone-edu-storage.json"), []byte("{not json"), 0644))

	_, err := NewFileBackend(dir, "").Load(ctx)
	assert.Error(t, err)

	s := Open(ctx, NewFileBackend(dir, ""), testutil.NullLogger())
	assert.Empty(t, s.List().Projects)
}
