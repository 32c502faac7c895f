package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/councilhq/councild/internal/mbti"
)

func TestStore_LoadCustomProfile(t *testing.T) {
	dir := t.TempDir()
	profile := `{
		"type": "INTJ",
		"voice": {"style": "dry"},
		"group_behavior": "Lands the structural point.",
		"example_lines": ["결론부터."]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "INTJ.json"), []byte(profile), 0o644))

	s := NewStore(dir, nil)
	p := s.Load(mbti.INTJ)

	assert.Equal(t, "INTJ", p.Type)
	assert.Equal(t, "dry", p.Voice["style"])
	assert.Equal(t, "Lands the structural point.", p.GroupBehavior)
	// Fields the profile omits keep the default values.
	assert.Equal(t, "Disagree clearly but stay constructive.", p.ConflictStyle)
}

func TestStore_MissingProfileFallsBack(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	p := s.Load(mbti.ENFP)

	assert.Equal(t, "ENFP", p.Type)
	assert.Equal(t, Default("ENFP"), p)
}

func TestStore_CorruptProfileFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ISFJ.json"), []byte("{not json"), 0o644))

	s := NewStore(dir, nil)
	p := s.Load(mbti.ISFJ)

	assert.Equal(t, Default("ISFJ"), p)
}

func TestStore_ProfileTypeFieldCannotLie(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "INTJ.json"), []byte(`{"type":"ENFP"}`), 0o644))

	s := NewStore(dir, nil)
	assert.Equal(t, "INTJ", s.Load(mbti.INTJ).Type)
}

func TestStore_LoadAll(t *testing.T) {
	s := NewStore(t.TempDir(), nil)
	codes := []mbti.Type{mbti.INTJ, mbti.ENFP, mbti.ISFJ}

	got := s.LoadAll(codes)
	require.Len(t, got, 3)
	for _, code := range codes {
		assert.Equal(t, string(code), got[code].Type)
	}
}

func TestPromptProfile_ExcludesExampleLines(t *testing.T) {
	p := Default("INTJ")
	p.ExampleLines = []string{"결론부터.", "조건을 보자."}

	profile := p.PromptProfile()
	assert.Contains(t, profile, `"type":"INTJ"`)
	assert.NotContains(t, profile, "결론부터")
	assert.NotContains(t, profile, "example_lines")
}
