package editor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/present"
	"github.com/ziadkadry99/slidesync/internal/render"
	"github.com/ziadkadry99/slidesync/internal/slides"
)

// RegisterRoutes mounts the editor page, the JSON API and the WebSocket
// endpoint on the given router.
func RegisterRoutes(r chi.Router, sess *Session, hub *Hub) {
	r.Get("/", ServeIndex)

	r.Route("/api/slides", func(r chi.Router) {
		r.Get("/", handleState(sess))
		r.Post("/", handleAdd(sess))
		r.Delete("/{id}", handleDelete(sess))
		r.Post("/{id}/select", handleSelect(sess))
		r.Put("/{id}/content", handleContent(sess))
		r.Put("/{id}/title", handleTitle(sess))
		r.Post("/{id}/move", handleMove(sess))
	})

	r.Get("/api/document", handleDocument(sess))
	r.Put("/api/scale", handleScale(sess))
	r.Post("/api/locate", handleLocate(sess))

	r.Route("/api/presentation", func(r chi.Router) {
		r.Get("/", handlePresentation(sess))
		r.Post("/start", handleStart(sess))
		r.Post("/next", handleNext(sess))
		r.Post("/previous", handlePrevious(sess))
		r.Post("/exit", handleExit(sess))
		r.Post("/activity", handleActivity(sess))
		r.Post("/fullscreen", handleFullscreen(sess))
		r.Post("/key", handleKey(sess))
	})

	r.Get("/ws/editor", handleWebSocket(sess, hub))
}

func handleState(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sess.State())
	}
}

func handleAdd(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, sess.AddSlide())
	}
}

func handleDelete(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sess.DeleteSlide(chi.URLParam(r, "id")); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, sess.State())
	}
}

// handleSelect treats unknown ids as a no-op: the page may be showing a
// slide another client already removed.
func handleSelect(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sess.SelectSlide(chi.URLParam(r, "id")); err != nil && !errors.Is(err, slides.ErrSlideNotFound) {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, sess.State())
	}
}

func handleContent(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			HTMLContent *string `json:"html_content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HTMLContent == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "html_content is required"})
			return
		}
		if err := sess.UpdateContent(chi.URLParam(r, "id"), *req.HTMLContent); err != nil && !errors.Is(err, slides.ErrSlideNotFound) {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, sess.State())
	}
}

func handleTitle(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := sess.SetTitle(chi.URLParam(r, "id"), req.Title); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, sess.State())
	}
}

func handleMove(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Index *int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index is required"})
			return
		}
		if err := sess.MoveSlide(chi.URLParam(r, "id"), *req.Index); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, sess.State())
	}
}

func handleScale(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Scale *float64 `json:"scale"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Scale == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scale must be a number"})
			return
		}
		sess.SetScale(*req.Scale)
		writeJSON(w, http.StatusOK, sess.State())
	}
}

func handleDocument(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, err := render.ParseMode(r.URL.Query().Get("mode"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		doc, ok := sess.Document(mode)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no slide to render"})
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handleLocate(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg ClickMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		writeJSON(w, http.StatusOK, sess.Locate(msg))
	}
}

func handlePresentation(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sess.Presentation())
	}
}

func handleStart(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Index *int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := sess.StartPresentation(req.Index); err != nil {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeJSON(w, http.StatusOK, sess.Presentation())
	}
}

func handleNext(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moved := sess.NextSlide()
		writeJSON(w, http.StatusOK, navigationResponse{Moved: moved, PresentationView: sess.Presentation()})
	}
}

func handlePrevious(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moved := sess.PreviousSlide()
		writeJSON(w, http.StatusOK, navigationResponse{Moved: moved, PresentationView: sess.Presentation()})
	}
}

func handleExit(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := sess.ExitPresentation()
		if err != nil {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"index": index})
	}
}

func handleActivity(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess.Activity()
		writeJSON(w, http.StatusOK, sess.Presentation())
	}
}

func handleFullscreen(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Active *bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "active is required"})
			return
		}
		sess.FullscreenChanged(*req.Active)
		writeJSON(w, http.StatusOK, sess.Presentation())
	}
}

func handleKey(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Key string `json:"key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
			return
		}
		handled := sess.Key(present.Key(req.Key))
		writeJSON(w, http.StatusOK, keyResponse{Handled: handled, PresentationView: sess.Presentation()})
	}
}

type navigationResponse struct {
	Moved bool `json:"moved"`
	PresentationView
}

type keyResponse struct {
	Handled bool `json:"handled"`
	PresentationView
}

func handleWebSocket(sess *Session, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.logger.Warn("websocket upgrade", zap.Error(err))
			return
		}
		conn.SetReadLimit(maxMessageSize)

		c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
		sess.Join(func(snapshot []Event) { hub.attach(c, snapshot) })
		go hub.writePump(c)
		defer hub.unregister(c)

		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					hub.logger.Debug("websocket read", zap.Error(err))
				}
				return
			}

			var msg inboundMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				hub.logger.Debug("ignoring malformed websocket message", zap.Error(err))
				continue
			}
			dispatch(sess, msg, hub.logger)
		}
	}
}

func dispatch(sess *Session, msg inboundMessage, logger *zap.Logger) {
	switch msg.Type {
	case MessageClick:
		sess.Locate(ClickMessage{Surface: msg.Surface, TagName: msg.TagName, OuterHTML: msg.OuterHTML})
	case MessageFullscreen:
		sess.FullscreenChanged(msg.Active)
	case MessageActivity:
		sess.Activity()
	case MessageKey:
		sess.Key(present.Key(msg.Key))
	default:
		logger.Debug("unknown websocket message", zap.String("type", msg.Type))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
