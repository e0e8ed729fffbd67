package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"emboditrust/verifyhub/internal/config"
)

// SMSSender delivers outbound SMS. Always injected, never a package singleton.
type SMSSender interface {
	Send(ctx context.Context, to string, message string) error
}

// NewSMSSender selects an implementation from config.
func NewSMSSender(cfg config.SMSConfig, logger *zap.Logger) SMSSender {
	if cfg.Provider == "gateway" && cfg.APIBaseURL != "" {
		return &gatewaySMSSender{
			cfg:    cfg,
			client: &http.Client{Timeout: 10 * time.Second},
		}
	}
	return &devSMSSender{logger: logger}
}

// devSMSSender logs messages instead of delivering them.
type devSMSSender struct {
	logger *zap.Logger
}

func (s *devSMSSender) Send(_ context.Context, to string, message string) error {
	s.logger.Info("sms (dev sender, not delivered)",
		zap.String("to", to),
		zap.String("message", message))
	return nil
}

// gatewaySMSSender posts to an HTTP SMS gateway.
type gatewaySMSSender struct {
	cfg    config.SMSConfig
	client *http.Client
}

func (s *gatewaySMSSender) Send(ctx context.Context, to string, message string) error {
	payload, err := json.Marshal(map[string]string{
		"from": s.cfg.SenderID,
		"to":   to,
		"text": message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIBaseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}
