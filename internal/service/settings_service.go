package service

import (
	"context"
	"errors"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/repository/localstore"
)

const settingsKey = "settings"

type ISettingsService interface {
	Get(ctx context.Context) *dto.SettingsResponse
	Update(ctx context.Context, request *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)

	// Current returns the effective settings entity for internal callers.
	Current(ctx context.Context) *entity.Settings
}

// settingsService persists settings as one whole-value blob. Reads merge the
// blob over defaults so partial documents from older builds load cleanly.
type settingsService struct {
	store  *localstore.Store
	logger logger.ILogger
}

func NewSettingsService(store *localstore.Store, log logger.ILogger) ISettingsService {
	return &settingsService{
		store:  store,
		logger: log,
	}
}

func (s *settingsService) Current(ctx context.Context) *entity.Settings {
	settings := entity.DefaultSettings()

	err := s.store.Load(settingsKey, settings)
	if err != nil && !errors.Is(err, localstore.ErrNotFound) {
		s.logger.Warn("Settings", "Failed to load settings, using defaults", map[string]interface{}{"error": err.Error()})
		settings = entity.DefaultSettings()
	}

	settings.Normalize()
	return settings
}

func (s *settingsService) Get(ctx context.Context) *dto.SettingsResponse {
	return toSettingsResponse(s.Current(ctx))
}

func (s *settingsService) Update(ctx context.Context, request *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	if err := serverutils.ValidateRequest(request); err != nil {
		return nil, err
	}

	settings := &entity.Settings{
		Model:             request.Model,
		MaxTokens:         request.MaxTokens,
		ChunkSize:         request.ChunkSize,
		RetrievedPassages: request.RetrievedPassages,
		Appearance: entity.Appearance{
			ChatBackgroundColor: request.Appearance.ChatBackgroundColor,
			FontSize:            request.Appearance.FontSize,
		},
	}
	settings.Normalize()

	if err := s.store.Save(settingsKey, settings); err != nil {
		return nil, err
	}

	s.logger.Info("Settings", "Settings updated", map[string]interface{}{
		"model":      settings.Model,
		"max_tokens": settings.MaxTokens,
	})
	return toSettingsResponse(settings), nil
}

func toSettingsResponse(settings *entity.Settings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		Model:             settings.Model,
		MaxTokens:         settings.MaxTokens,
		ChunkSize:         settings.ChunkSize,
		RetrievedPassages: settings.RetrievedPassages,
		Appearance: dto.AppearanceResponse{
			ChatBackgroundColor: settings.Appearance.ChatBackgroundColor,
			FontSize:            settings.Appearance.FontSize,
		},
	}
}
