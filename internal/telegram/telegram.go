package telegram

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/telegram/bot"
	"github.com/futig/proposal-backend/internal/telegram/state"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	proposalUC bot.ProposalUsecase,
	logger *zap.Logger,
) (Bot, error) {
	stateManager := state.NewManager()

	b, err := bot.New(cfg, stateManager, proposalUC, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	logger.Info("telegram bot initialized successfully")

	return b, nil
}
