package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logagrip/internal/domain"
)

func names(presets []domain.Preset) []string {
	out := make([]string, len(presets))
	for i, p := range presets {
		out[i] = p.Name
	}
	return out
}

func TestDefaults(t *testing.T) {
	s := NewStore(Defaults()...)

	assert.Equal(t, []string{"project-prd", "project-stg", "project-dev", "lambda", "glue"}, names(s.Items()))
	for _, p := range s.Items() {
		assert.Nil(t, p.GroupNamePrefix, p.Name)
	}
	assert.Equal(t, "Presets", s.Label())
}

func TestByName(t *testing.T) {
	s := NewStore(Defaults()...)
	assert.Equal(t, []string{"glue", "lambda", "project-dev", "project-prd", "project-stg"}, names(ByName(s)))

	s.SetQuery("project")
	assert.Equal(t, []string{"project-dev", "project-prd", "project-stg"}, names(ByName(s)))
	assert.Equal(t, `Presets ("project")`, s.Label())
}

func TestAnonymous(t *testing.T) {
	p := Anonymous("/aws/lambda")
	assert.Equal(t, "anonymous", p.Name)
	require.NotNil(t, p.GroupNamePrefix)
	assert.Equal(t, "/aws/lambda", *p.GroupNamePrefix)

	assert.Nil(t, Anonymous("").GroupNamePrefix)
}

func TestDuplicateNamesReplace(t *testing.T) {
	s := NewStore(domain.NewPreset("a", "/one"), domain.NewPreset("b", ""), domain.NewPreset("a", "/two"))

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "/two", s.Items()[0].Prefix())
}
