package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intervo/internal/core/domain"
)

func TestGuideCmd_Use(t *testing.T) {
	assert.Equal(t, "guide", guideCmd.Use)
}

func TestGuideCreateCmd_RequiresFile(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"guide", "create"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestGuideCreateCmd_StoresGuideFromFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var gotTitle string
	var gotQuestions []domain.Question
	guideService = &mockGuideService{
		CreateFn: func(_ context.Context, title, _ string, questions []domain.Question) (*domain.Guide, error) {
			gotTitle = title
			gotQuestions = questions
			return &domain.Guide{ID: "g1", Title: title, CurrentVersion: 2}, nil
		},
	}

	path := filepath.Join(t.TempDir(), "guide.json")
	content, err := json.Marshal(guideFile{
		Title: "Exit Interview",
		Questions: []domain.Question{
			{ID: "q1", Text: "Why are you leaving?"},
		},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, content, 0600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"guide", "create", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "Exit Interview", gotTitle)
	require.Len(t, gotQuestions, 1)
	assert.Equal(t, "q1", gotQuestions[0].ID)
	assert.Contains(t, buf.String(), "version 2")
}

func TestGuideListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"guide", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No guides found")
}

func TestGuideListCmd_ShowsGuides(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	guideService = &mockGuideService{Guides: []domain.Guide{
		{ID: "g1", Title: "Exit Interview", CurrentVersion: 3},
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"guide", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Exit Interview (v3)")
}

func TestGuideActivateCmd_RejectsNonNumericVersion(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"guide", "activate", "g1", "latest"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGuideActivateCmd_Activates(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var gotVersion int
	guideService = &mockGuideService{
		ActivateFn: func(_ context.Context, guideID string, version int) (*domain.Guide, *domain.GuideVersion, error) {
			gotVersion = version
			return &domain.Guide{ID: guideID, Title: "G"},
				&domain.GuideVersion{GuideID: guideID, Version: version, IsActive: true}, nil
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"guide", "activate", "g1", "2"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, 2, gotVersion)
	assert.Contains(t, buf.String(), "Version 2 is now active")
}
