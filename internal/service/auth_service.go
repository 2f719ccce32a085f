package service

import (
	"context"
	"time"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/repository/localstore"
	"ai-docchat-be/internal/repository/memory"
	"ai-docchat-be/pkg/events"
	pktNats "ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const identityKey = "session"

type IAuthService interface {
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, session *store.Session) error
	Me(ctx context.Context, session *store.Session) *dto.MeResponse
}

// authService captures identity only. There is no password and no account
// record; the email is taken at face value and bound to a fresh session.
type authService struct {
	sessionRepo    *memory.SessionRepository
	localStore     *localstore.Store
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewAuthService(
	sessionRepo *memory.SessionRepository,
	localStore *localstore.Store,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAuthService {
	return &authService{
		sessionRepo:    sessionRepo,
		localStore:     localStore,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *authService) Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := serverutils.ValidateRequest(request); err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	session := store.NewSession(sessionID, request.Email)
	s.sessionRepo.Save(session)

	claims := jwt.MapClaims{
		"session_id": sessionID,
		"email":      request.Email,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(serverutils.JwtSecret())
	if err != nil {
		return nil, err
	}

	identity := dto.PersistedIdentity{
		Email:       request.Email,
		LastLoginAt: time.Now(),
	}
	if err := s.localStore.Save(identityKey, identity); err != nil {
		s.logger.Warn("Auth", "Failed to persist identity", map[string]interface{}{"error": err.Error()})
	}

	if s.eventPublisher != nil {
		evt := events.New(constant.EventUserLoggedIn, map[string]interface{}{
			"session_id": sessionID,
			"email":      request.Email,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("Auth", "Failed to publish login event", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("Auth", "User logged in", map[string]interface{}{"session_id": sessionID})

	return &dto.LoginResponse{
		Token: signedToken,
		Email: request.Email,
	}, nil
}

// Logout tears the session down: upload tasks stop, the registry and
// transcript go away, the persisted identity is removed. Settings survive.
func (s *authService) Logout(ctx context.Context, session *store.Session) error {
	for _, src := range session.ClearSources() {
		src.StopTask()
	}
	session.ResetTranscript()
	s.sessionRepo.Delete(session.ID)

	if err := s.localStore.Delete(identityKey); err != nil {
		s.logger.Warn("Auth", "Failed to remove persisted identity", map[string]interface{}{"error": err.Error()})
	}

	s.logger.Info("Auth", "User logged out", map[string]interface{}{"session_id": session.ID})
	return nil
}

func (s *authService) Me(ctx context.Context, session *store.Session) *dto.MeResponse {
	return &dto.MeResponse{Email: session.Email}
}
