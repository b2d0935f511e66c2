// ============================================================================
// TypeFree - Push-to-Talk Dictation
// ============================================================================
//
// Package:     stt
// Description: Live partial transcripts over a websocket stream
// Author:      zhangyu1818
// License:     MIT
// ============================================================================

package stt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/zhangyu1818/typefree/internal/config"
	"github.com/zhangyu1818/typefree/pkg/logging"
)

// TranscriptEvent is one partial or final transcript from a stream.
type TranscriptEvent struct {
	Text  string
	Final bool
}

// Stream is a live transcription session against the alternate local
// server's websocket endpoint. Audio frames go in, partial transcripts
// come out while the user is still speaking.
type Stream struct {
	conn   *websocket.Conn
	events chan TranscriptEvent
	audio  chan []byte
	done   chan struct{}
	logger *logging.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
	sendOnce  sync.Once

	errMu sync.Mutex
	err   error
}

// OpenStream connects to the streaming endpoint of the alternate server.
func OpenStream(ctx context.Context, cfg config.STTConfig, sampleRate int, logger *logging.Logger) (*Stream, error) {
	if logger == nil {
		logger = logging.New("stt-stream")
	}

	wsURL, err := streamURL(cfg, sampleRate)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to streaming endpoint: %w", err)
	}

	s := &Stream{
		conn:   conn,
		events: make(chan TranscriptEvent, 32),
		audio:  make(chan []byte, 32),
		done:   make(chan struct{}),
		logger: logger,
	}

	s.wg.Add(2)
	go s.readLoop()
	go s.writeLoop()
	go func() {
		s.wg.Wait()
		close(s.events)
		close(s.done)
		conn.Close()
	}()

	return s, nil
}

// streamURL rewrites the server base URL to the websocket endpoint.
func streamURL(cfg config.STTConfig, sampleRate int) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.AltServerURL), "/")
	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}

	u, err := url.Parse(base + "/v1/audio/transcriptions/stream")
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	q := u.Query()
	q.Set("model", cfg.AltModel)
	q.Set("encoding", "linear16")
	q.Set("sample_rate", fmt.Sprintf("%d", sampleRate))
	if cfg.Language != "" && cfg.Language != "auto" {
		q.Set("language", cfg.Language)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SendAudio queues one PCM frame for the server.
func (s *Stream) SendAudio(frame []byte) error {
	if len(frame) == 0 {
		return nil
	}
	copied := append([]byte(nil), frame...)
	select {
	case s.audio <- copied:
		return nil
	case <-s.done:
		if err := s.streamErr(); err != nil {
			return err
		}
		return errors.New("stream closed")
	}
}

// Events delivers partial and final transcripts. The channel closes when
// the stream ends.
func (s *Stream) Events() <-chan TranscriptEvent {
	return s.events
}

// CloseSend signals that no more audio will arrive; the server flushes its
// final transcript.
func (s *Stream) CloseSend() {
	s.sendOnce.Do(func() { close(s.audio) })
}

// Close tears the stream down and returns any transport error.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.CloseSend()
		s.conn.Close()
	})
	<-s.done
	return s.streamErr()
}

func (s *Stream) streamErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Stream) setErr(err error) {
	if err == nil || websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *Stream) writeLoop() {
	defer s.wg.Done()

	for frame := range s.audio {
		if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			s.setErr(fmt.Errorf("failed to send audio: %w", err))
			return
		}
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`)); err != nil {
		s.setErr(fmt.Errorf("failed to close stream: %w", err))
	}
}

func (s *Stream) readLoop() {
	defer s.wg.Done()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.setErr(fmt.Errorf("failed to read stream event: %w", err))
			return
		}

		var msg struct {
			Type    string `json:"type"`
			Message string `json:"message"`
			Text    string `json:"text"`
			IsFinal bool   `json:"is_final"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}

		if strings.EqualFold(msg.Type, "error") {
			s.setErr(errors.New(strings.TrimSpace(msg.Message)))
			return
		}

		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}
		select {
		case s.events <- TranscriptEvent{Text: text, Final: msg.IsFinal}:
		case <-s.done:
			return
		default:
			// Drop partials rather than stall the reader.
		}
	}
}
