package architecture

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merngen/internal/types"
)

func TestStoreKeysOnTrimmedPrompt(t *testing.T) {
	s := New(4, time.Minute)
	doc := &types.ArchitectureDocument{ProjectName: "shop"}
	s.Put("  a shop  ", Entry{Doc: doc, ProjectType: types.ProjectFullstack})

	got, ok := s.Get("a shop")
	require.True(t, ok)
	assert.Same(t, doc, got.Doc)
	assert.Equal(t, types.ProjectFullstack, got.ProjectType)

	_, ok = s.Get("a shop!")
	assert.False(t, ok)
}

func TestStoreIgnoresBlankAndEmpty(t *testing.T) {
	s := New(4, time.Minute)
	s.Put("   ", Entry{Doc: &types.ArchitectureDocument{ProjectName: "x"}})
	s.Put("prompt", Entry{})
	assert.Equal(t, 0, s.Len())

	_, ok := s.Get("")
	assert.False(t, ok)
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	s := New(2, time.Minute)
	for i := 0; i < 3; i++ {
		s.Put(fmt.Sprintf("p%d", i), Entry{Doc: &types.ArchitectureDocument{ProjectName: fmt.Sprint(i)}})
	}
	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("p0")
	assert.False(t, ok)
	_, ok = s.Get("p2")
	assert.True(t, ok)
}

func TestStoreExpires(t *testing.T) {
	s := New(2, 20*time.Millisecond)
	s.Put("p", Entry{Doc: &types.ArchitectureDocument{ProjectName: "p"}})
	assert.Eventually(t, func() bool {
		_, ok := s.Get("p")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestNilStore(t *testing.T) {
	var s *Store
	s.Put("p", Entry{Doc: &types.ArchitectureDocument{}})
	_, ok := s.Get("p")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
	s.Purge()
}
