package service

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/events"
	pktNats "ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/store"
)

type ISourceService interface {
	AddFiles(ctx context.Context, session *store.Session, files []*multipart.FileHeader) ([]*dto.SourceResponse, error)
	AddURL(ctx context.Context, session *store.Session, request *dto.AddURLRequest) (*dto.SourceResponse, error)
	List(ctx context.Context, session *store.Session) []*dto.SourceResponse
	Remove(ctx context.Context, session *store.Session, sourceID string) error
	Clear(ctx context.Context, session *store.Session)
}

type sourceService struct {
	publisher      IPublisherService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
	uploadTick     time.Duration
}

func NewSourceService(
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	uploadTick time.Duration,
) ISourceService {
	return &sourceService{
		publisher:      publisher,
		eventPublisher: eventPublisher,
		logger:         log,
		uploadTick:     uploadTick,
	}
}

// acceptedExtensions gates file uploads. Anything else is dropped without an
// error so a mixed multi-select still registers its valid members.
var acceptedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

func (s *sourceService) AddFiles(ctx context.Context, session *store.Session, files []*multipart.FileHeader) ([]*dto.SourceResponse, error) {
	added := make([]*dto.SourceResponse, 0, len(files))

	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !acceptedExtensions[ext] {
			s.logger.Info("Source", "Dropped file with unsupported extension", map[string]interface{}{
				"session_id": session.ID,
				"file_name":  fh.Filename,
			})
			continue
		}

		src := entity.NewFileSource(fh.Filename)
		taskCtx, cancel := context.WithCancel(context.Background())
		src.BindTask(cancel)
		session.AddSource(src)

		go s.runUploadTask(taskCtx, session, src.Id, src.Name())

		s.publishSourceAdded(ctx, session, src)
		added = append(added, toSourceResponse(src))
	}

	return added, nil
}

func (s *sourceService) AddURL(ctx context.Context, session *store.Session, request *dto.AddURLRequest) (*dto.SourceResponse, error) {
	parsed, err := url.ParseRequestURI(strings.TrimSpace(request.URL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, dto.NewValidationError("invalid URL: must be an absolute http(s) address")
	}

	src := entity.NewURLSource(parsed.String())
	session.AddSource(src)

	// URLs skip the upload simulation, but clients still get one progress
	// event so every source arrival flows through the same channel.
	s.publishProgress(dto.SourceProgressEvent{
		SessionId: session.ID,
		SourceId:  src.Id,
		Name:      src.Name(),
		Status:    src.Status,
		Progress:  src.Progress,
	})
	s.publishSourceAdded(ctx, session, src)

	return toSourceResponse(src), nil
}

func (s *sourceService) List(ctx context.Context, session *store.Session) []*dto.SourceResponse {
	sources := session.Sources()
	out := make([]*dto.SourceResponse, 0, len(sources))
	for _, src := range sources {
		out = append(out, toSourceResponse(src))
	}
	return out
}

func (s *sourceService) Remove(ctx context.Context, session *store.Session, sourceID string) error {
	src := session.RemoveSource(sourceID)
	if src == nil {
		return dto.NewValidationError("unknown source id")
	}
	src.StopTask()

	s.logger.Info("Source", "Source removed", map[string]interface{}{
		"session_id": session.ID,
		"source_id":  sourceID,
	})
	return nil
}

func (s *sourceService) Clear(ctx context.Context, session *store.Session) {
	removed := session.ClearSources()
	for _, src := range removed {
		src.StopTask()
	}

	s.logger.Info("Source", "Registry cleared", map[string]interface{}{
		"session_id": session.ID,
		"removed":    len(removed),
	})
}

// runUploadTask ticks one file source from 0 to 100. The entry owns the task
// through its cancel func, so removing the source stops the goroutine.
func (s *sourceService) runUploadTask(ctx context.Context, session *store.Session, sourceID, name string) {
	ticker := time.NewTicker(s.uploadTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			progress, completed, ok := session.AdvanceUpload(sourceID, constant.UploadProgressIncrement)
			if !ok {
				// Source was removed or already finished elsewhere.
				return
			}

			status := entity.SourceStatusUploading
			if completed {
				status = entity.SourceStatusCompleted
			}
			s.publishProgress(dto.SourceProgressEvent{
				SessionId: session.ID,
				SourceId:  sourceID,
				Name:      name,
				Status:    status,
				Progress:  progress,
			})

			if completed {
				return
			}
		}
	}
}

func (s *sourceService) publishProgress(event dto.SourceProgressEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Source", "Failed to marshal progress event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisher.Publish(context.Background(), payload); err != nil {
		s.logger.Error("Source", "Failed to publish progress event", map[string]interface{}{"error": err.Error()})
	}
}

func (s *sourceService) publishSourceAdded(ctx context.Context, session *store.Session, src *entity.KnowledgeSource) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.New(constant.EventSourceAdded, map[string]interface{}{
		"session_id": session.ID,
		"source_id":  src.Id,
		"type":       src.Type,
		"name":       src.Name(),
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("Source", "Failed to publish source_added event", map[string]interface{}{"error": err.Error()})
	}
}

func toSourceResponse(src *entity.KnowledgeSource) *dto.SourceResponse {
	return &dto.SourceResponse{
		Id:        src.Id,
		Type:      src.Type,
		Name:      src.Name(),
		Status:    src.Status,
		Progress:  src.Progress,
		CreatedAt: src.CreatedAt,
	}
}
