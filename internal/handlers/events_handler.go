package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go_5_habit_keep/internal/events"
	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/webutil"
)

const defaultHeartbeat = 25 * time.Second

// EventsHandler は変更通知を Server-Sent Events で流します
type EventsHandler struct {
	broker    *events.Broker
	heartbeat time.Duration
}

func NewEventsHandler(broker *events.Broker, heartbeat time.Duration) *EventsHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &EventsHandler{broker: broker, heartbeat: heartbeat}
}

// Stream はクライアントが切断するまで plan / day イベントを書き続けます
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "Stream")
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("Streaming unsupported by response writer")
		webutil.HandleError(w, logger, model.NewAppError("INTERNAL_SERVER_ERROR", "ストリーミングに対応していません。", "", model.ErrInternalServer))
		return
	}

	ch, cancel := h.broker.Subscribe(tenantID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()
	logger.Info("Event stream opened")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			logger.Info("Event stream closed by client")
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Error("Failed to marshal event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
