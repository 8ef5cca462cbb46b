package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	assert.Equal(t, []BackendKind{BackendLinter, BackendFormatter}, Kinds())
}

func TestDescriptor(t *testing.T) {
	assert.Equal(t, "oxlint", Descriptor(BackendLinter).Name)
	assert.Equal(t, "oxfmt", Descriptor(BackendFormatter).Name)
}

func TestDisabled(t *testing.T) {
	desc := LinterDescriptor()
	assert.False(t, desc.Disabled())

	t.Setenv(desc.DisableEnv, "1")
	assert.True(t, desc.Disabled())
}

func TestMatches(t *testing.T) {
	desc := FormatterDescriptor()

	tests := []struct {
		path string
		want bool
	}{
		{path: "/repo/src/app.ts", want: true},
		{path: "/repo/src/Component.TSX", want: true},
		{path: "/repo/src/util.mjs", want: true},
		{path: "/repo/src/page.vue", want: true},
		{path: "/repo/src/page.astro", want: true},
		{path: "/repo/README.md", want: false},
		{path: "/repo/src/main.go", want: false},
		{path: "/repo/src/noext", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, desc.Matches(tt.path), tt.path)
	}
}

func TestConfigChangeRelevant(t *testing.T) {
	tests := []struct {
		name   string
		change ConfigChange
		want   bool
	}{
		{
			name:   "matching section",
			change: ConfigChange{Sections: []string{"oxlint"}},
			want:   true,
		},
		{
			name:   "foreign section",
			change: ConfigChange{Sections: []string{"editor"}},
			want:   false,
		},
		{
			name:   "no section scoping",
			change: ConfigChange{},
			want:   true,
		},
		{
			name:   "folder membership change",
			change: ConfigChange{Sections: []string{"editor"}, WorkspaceFoldersChanged: true},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.change.Relevant("oxlint"))
		})
	}
}
