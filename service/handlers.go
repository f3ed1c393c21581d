package service

import (
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/packet"
)

// errorReply is the wire shape of a rejected packet's reply.
type errorReply struct {
	Error string `json:"error"`
	Class string `json:"class"`
}

func (s *StreamService) subscribe() error {
	conn := s.nats.Conn()

	packetSub, err := conn.Subscribe(s.cfg.Service.PacketSubject, s.handlePacket)
	if err != nil {
		return errors.WrapTransient(err, "StreamService", "subscribe", "packet subject")
	}
	s.subscriptions = append(s.subscriptions, packetSub)

	summarySub, err := conn.Subscribe(s.cfg.Service.SummarySubject, s.handleSummary)
	if err != nil {
		return errors.WrapTransient(err, "StreamService", "subscribe", "summary subject")
	}
	s.subscriptions = append(s.subscriptions, summarySub)
	return nil
}

func (s *StreamService) unsubscribe() {
	for _, sub := range s.subscriptions {
		_ = sub.Unsubscribe()
	}
	s.subscriptions = nil
}

// handlePacket decodes one inbound packet, runs it through the engine,
// and publishes the placement. Rejections reply with the error when the
// sender asked for one; the stream itself keeps flowing either way.
func (s *StreamService) handlePacket(msg *nats.Msg) {
	if s.limiter != nil && !s.limiter.Allow() {
		s.logger.Warn("packet dropped by rate limiter", "subject", msg.Subject)
		if s.metrics != nil {
			s.metrics.IngestErrors.WithLabelValues(errors.ErrorTransient.String()).Inc()
		}
		return
	}

	var pkt packet.Packet
	if err := json.Unmarshal(msg.Data, &pkt); err != nil {
		s.rejectPacket(msg, errors.WrapInvalid(err, "StreamService", "handlePacket", "packet decode"))
		return
	}

	placement, err := s.Ingest(pkt)
	if err != nil {
		s.rejectPacket(msg, err)
		return
	}

	data, err := json.Marshal(placement)
	if err != nil {
		s.logger.Error("placement encode failed", "error", err)
		return
	}
	if err := s.nats.Conn().Publish(s.cfg.Service.PlacementSubject, data); err != nil {
		s.logger.Error("placement publish failed", "error", err)
	}
	if msg.Reply != "" {
		_ = msg.Respond(data)
	}
}

func (s *StreamService) rejectPacket(msg *nats.Msg, err error) {
	s.logger.Warn("packet rejected", "error", err)
	if msg.Reply == "" {
		return
	}
	reply, marshalErr := json.Marshal(errorReply{
		Error: err.Error(),
		Class: errors.Classify(err).String(),
	})
	if marshalErr != nil {
		return
	}
	_ = msg.Respond(reply)
}

// handleSummary answers a summary request with the engine's current
// topological summary.
func (s *StreamService) handleSummary(msg *nats.Msg) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(s.Summary())
	if err != nil {
		s.logger.Error("summary encode failed", "error", err)
		return
	}
	_ = msg.Respond(data)
}
