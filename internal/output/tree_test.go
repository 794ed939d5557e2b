package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPathTree_Empty(t *testing.T) {
	assert.Empty(t, RenderPathTree(nil))
}

func TestRenderPathTree_FoldersFirst(t *testing.T) {
	got := RenderPathTree([]string{
		"Assets/Prefabs/Hero.prefab",
		"Assets/Audio/theme.ogg",
		"Assets/readme.txt",
		"Assets/Prefabs/Hero.prefab",
	})

	want := "└── Assets/\n" +
		"    ├── Audio/\n" +
		"    │   └── theme.ogg\n" +
		"    ├── Prefabs/\n" +
		"    │   └── Hero.prefab\n" +
		"    └── readme.txt\n"
	assert.Equal(t, want, got)
}

func TestRenderPathTree_SiblingRoots(t *testing.T) {
	got := RenderPathTree([]string{"b.asset", "a.asset"})
	assert.Equal(t, "├── a.asset\n└── b.asset\n", got)
}
