package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/models"
	"github.com/Dosada05/pushbike-heats/storage"
	"github.com/google/uuid"
)

// ResultsExport is the document published when an event completes. Every
// publication is a new object; the latest GeneratedAt supersedes earlier ones.
type ResultsExport struct {
	ExportID    string                `json:"export_id"`
	Event       models.Event          `json:"event"`
	Rounds      int                   `json:"rounds"`
	Results     []models.FinalPlacing `json:"results"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// resultsPublisher announces terminal standings and exports them when an
// uploader is configured.
type resultsPublisher struct {
	controller *brackets.Controller
	notifier   Notifier
	uploader   storage.FileUploader
	logger     *slog.Logger
}

// publish sends EVENT_COMPLETED with the standings of a complete event and
// returns the exported URL. Upload failures are logged and yield an empty URL.
func (p *resultsPublisher) publish(ctx context.Context, event *models.Event, snap brackets.Snapshot) (string, error) {
	final, err := p.controller.FinalStandings(snap)
	if err != nil {
		return "", err
	}
	status, err := p.controller.Status(snap)
	if err != nil {
		return "", err
	}

	url, err := p.export(ctx, event, status.CurrentRound, final)
	if err != nil {
		p.logger.Error("failed to export results",
			slog.Int("event_id", event.ID),
			slog.Any("error", err),
		)
		url = ""
	}
	p.notifier.Notify(event.ID, brackets.MessageEventCompleted, final)
	return url, nil
}

func (p *resultsPublisher) export(ctx context.Context, event *models.Event, rounds int, final []models.FinalPlacing) (string, error) {
	if p.uploader == nil {
		return "", nil
	}
	doc := ResultsExport{
		ExportID:    uuid.NewString(),
		Event:       *event,
		Rounds:      rounds,
		Results:     final,
		GeneratedAt: time.Now().UTC(),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	key := fmt.Sprintf("results/event_%d/%s.json", event.ID, doc.ExportID)
	uploaded, err := p.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	p.logger.Info("results exported", slog.Int("event_id", event.ID), slog.String("key", uploaded.Key))
	return uploaded.Location, nil
}
