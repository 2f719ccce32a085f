package service

import (
	"context"
	"testing"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/repository/localstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettingsService(t *testing.T) (ISettingsService, *localstore.Store) {
	t.Helper()
	ls, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	return NewSettingsService(ls, nopLogger{}), ls
}

func validUpdate() *dto.UpdateSettingsRequest {
	return &dto.UpdateSettingsRequest{
		Model:             "general",
		MaxTokens:         1024,
		ChunkSize:         500,
		RetrievedPassages: 5,
		Appearance: dto.UpdateAppearanceRequest{
			ChatBackgroundColor: "blue",
			FontSize:            "lg",
		},
	}
}

func TestGetReturnsDefaultsWhenUnset(t *testing.T) {
	svc, _ := newTestSettingsService(t)

	res := svc.Get(context.Background())

	assert.Equal(t, "copilot", res.Model)
	assert.Equal(t, 2048, res.MaxTokens)
	assert.Equal(t, 1000, res.ChunkSize)
	assert.Equal(t, 3, res.RetrievedPassages)
	assert.Equal(t, "default", res.Appearance.ChatBackgroundColor)
	assert.Equal(t, "base", res.Appearance.FontSize)
}

func TestUpdatePersistsWholeValue(t *testing.T) {
	svc, ls := newTestSettingsService(t)

	res, err := svc.Update(context.Background(), validUpdate())
	require.NoError(t, err)
	assert.Equal(t, "general", res.Model)
	assert.Equal(t, 1024, res.MaxTokens)

	// A fresh service over the same store sees the update.
	again := NewSettingsService(ls, nopLogger{})
	assert.Equal(t, "general", again.Get(context.Background()).Model)
	assert.Equal(t, "blue", again.Get(context.Background()).Appearance.ChatBackgroundColor)
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	svc, _ := newTestSettingsService(t)

	tests := []struct {
		name   string
		mutate func(*dto.UpdateSettingsRequest)
	}{
		{"unknown model", func(r *dto.UpdateSettingsRequest) { r.Model = "gpt-99" }},
		{"zero max tokens", func(r *dto.UpdateSettingsRequest) { r.MaxTokens = 0 }},
		{"passages above range", func(r *dto.UpdateSettingsRequest) { r.RetrievedPassages = 11 }},
		{"unknown background", func(r *dto.UpdateSettingsRequest) { r.Appearance.ChatBackgroundColor = "magenta" }},
		{"unknown font size", func(r *dto.UpdateSettingsRequest) { r.Appearance.FontSize = "xxl" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validUpdate()
			tt.mutate(req)

			_, err := svc.Update(context.Background(), req)

			var validationErr *dto.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	// Nothing persisted; defaults still apply.
	assert.Equal(t, "copilot", svc.Get(context.Background()).Model)
}

func TestCurrentNormalizesCorruptBlob(t *testing.T) {
	svc, ls := newTestSettingsService(t)

	// A hand-edited blob with out-of-range values loads as defaults per field.
	require.NoError(t, ls.Save("settings", map[string]any{
		"model":             "bogus",
		"maxTokens":         -5,
		"retrievedPassages": 99,
	}))

	current := svc.Current(context.Background())
	assert.Equal(t, "copilot", current.Model)
	assert.Equal(t, 2048, current.MaxTokens)
	assert.Equal(t, 3, current.RetrievedPassages)
	assert.Equal(t, 1000, current.ChunkSize, "missing fields fall back to defaults")
}
