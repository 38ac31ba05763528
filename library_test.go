package paperit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLibrary(t *testing.T) {
	t.Run("create new library", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_library")
		lib, err := OpenLibrary(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, lib)
		defer lib.Close()

		assert.NotNil(t, lib.Store())
		assert.NotNil(t, lib.Provider())
		assert.NotNil(t, lib.backend)
		assert.NotNil(t, lib.logger)
	})

	t.Run("in memory", func(t *testing.T) {
		lib, err := OpenLibrary("", WithInMemory())
		require.NoError(t, err)
		defer lib.Close()
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		lib, err := OpenLibrary(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, lib)
	})
}

func TestLibrary_Close(t *testing.T) {
	lib, err := OpenLibrary(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, lib.Close())
}

func TestLibrary_FactoryMethods(t *testing.T) {
	lib, err := OpenLibrary("", WithInMemory())
	require.NoError(t, err)
	defer lib.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := lib.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create retriever", func(t *testing.T) {
		retriever, err := lib.NewRetriever()
		require.NoError(t, err)
		require.NotNil(t, retriever)
	})

	t.Run("can create qa engine", func(t *testing.T) {
		engine, err := lib.NewQAEngine()
		require.NoError(t, err)
		require.NotNil(t, engine)
	})

	t.Run("can create reembedder", func(t *testing.T) {
		reembedder, err := lib.NewReembedder(nil, nil)
		require.NoError(t, err)
		require.NotNil(t, reembedder)
	})
}
