package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/futig/proposal-backend/internal/config"
	"github.com/futig/proposal-backend/internal/entity"
	"github.com/futig/proposal-backend/internal/telegram/middleware"
	"github.com/futig/proposal-backend/internal/telegram/state"
)

// ProposalUsecase is the run lifecycle the bot drives.
type ProposalUsecase interface {
	StartRun(ctx context.Context, req *entity.GenerateProposalRequest, sourceFileName *string) (*entity.ProposalRun, error)
	ExecuteRun(ctx context.Context, run *entity.ProposalRun, callbackURL string) error
	GetRun(ctx context.Context, id string) (*entity.ProposalRun, error)
	GetResultFile(ctx context.Context, id string, format entity.ResultFormat) (data []byte, contentType, filename string, err error)
}

const welcomeText = `Proposal generator bot.

/new - generate a proposal from requirements
/enhanced - same, enriched with project documents
/status - check the last run
/result - download the last finished proposal
/cancel - reset the dialog

Send /new, then paste the RFP requirements as a message.`

// Bot represents the Telegram bot
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          *config.TelegramConfig
	stateManager *state.Manager
	proposalUC   ProposalUsecase
	logger       *zap.Logger
	loggingMW    *middleware.LoggingMiddleware
	recoveryMW   *middleware.RecoveryMiddleware
	updatesChan  tgbotapi.UpdatesChannel
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	stateManager *state.Manager,
	proposalUC ProposalUsecase,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	bot := &Bot{
		api:          api,
		cfg:          cfg,
		stateManager: stateManager,
		proposalUC:   proposalUC,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}

	bot.loggingMW = middleware.NewLoggingMiddleware(logger)
	bot.recoveryMW = middleware.NewRecoveryMiddleware(logger, api)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update := <-b.updatesChan:
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
					b.recoveryMW.Handle(u2, b.handleUpdate)
				})
			}(update)
		}
	}
}

// handleUpdate routes the update to a command or dialog handler
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	ctx := ctxzap.ToContext(context.Background(), b.logger)

	if update.Message.IsCommand() {
		b.handleCommand(ctx, update.Message)
		return
	}

	b.handleMessage(ctx, update.Message)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	chatID := message.Chat.ID

	ctxzap.Info(ctx, "command received",
		zap.String("command", command),
		zap.Int64("user_id", message.From.ID),
	)

	switch command {
	case "start", "help":
		b.sendText(chatID, welcomeText)
	case "new":
		b.startDialog(chatID, false)
	case "enhanced":
		b.startDialog(chatID, true)
	case "status":
		b.handleStatusCommand(ctx, chatID)
	case "result":
		b.handleResultCommand(ctx, chatID)
	case "cancel":
		b.stateManager.Reset(chatID)
		b.sendText(chatID, "Dialog reset. Send /new to start over.")
	default:
		b.sendText(chatID, "Unknown command. Send /help for the command list.")
	}
}

func (b *Bot) startDialog(chatID int64, enhanced bool) {
	b.stateManager.Set(chatID, &state.ChatState{
		Step:     state.StepAwaitingRequirements,
		Enhanced: enhanced,
	})

	text := "Paste the RFP requirements as your next message."
	if enhanced {
		text += "\nRelated project documents will be pulled in to enrich the proposal."
	}
	b.sendText(chatID, text)
}

// handleMessage consumes the requirements text when the dialog is waiting for it.
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	chatState := b.stateManager.Get(chatID)

	if chatState.Step != state.StepAwaitingRequirements {
		b.sendText(chatID, "Send /new to start a proposal, or /help for the command list.")
		return
	}

	if strings.TrimSpace(message.Text) == "" {
		b.sendText(chatID, "Requirements must be plain text. Paste them as a message.")
		return
	}

	run, err := b.proposalUC.StartRun(ctx, &entity.GenerateProposalRequest{
		Requirements: message.Text,
		Enhanced:     chatState.Enhanced,
	}, nil)
	if err != nil {
		ctxzap.Error(ctx, "failed to start run from telegram", zap.Error(err))
		b.sendText(chatID, "Could not start generation: "+err.Error())
		return
	}

	b.stateManager.Set(chatID, &state.ChatState{
		Step:      state.StepGenerating,
		Enhanced:  chatState.Enhanced,
		LastRunID: run.ID,
	})

	b.sendText(chatID, fmt.Sprintf("Generation started, run %s.\nI will send the proposal here when it is ready; /status shows progress.", run.ID))

	go b.executeAndDeliver(run, chatID)
}

// executeAndDeliver runs the workflow and sends the rendered proposal back to
// the chat when it finishes.
func (b *Bot) executeAndDeliver(run *entity.ProposalRun, chatID int64) {
	ctx := ctxzap.ToContext(context.Background(), b.logger.With(zap.String("run_id", run.ID)))

	if err := b.proposalUC.ExecuteRun(ctx, run, ""); err != nil {
		ctxzap.Error(ctx, "telegram run failed", zap.Error(err))
		b.sendText(chatID, "Generation failed: "+err.Error())
		b.resetToIdle(chatID, run.ID)
		return
	}

	data, _, filename, err := b.proposalUC.GetResultFile(ctx, run.ID, entity.FormatMarkdown)
	if err != nil {
		ctxzap.Error(ctx, "failed to render telegram result", zap.Error(err))
		b.sendText(chatID, "Proposal is ready but could not be rendered. Use /result to retry.")
		b.resetToIdle(chatID, run.ID)
		return
	}

	if err := b.sendDocument(chatID, filename, data); err != nil {
		ctxzap.Error(ctx, "failed to deliver telegram result", zap.Error(err))
		b.sendText(chatID, "Proposal is ready but delivery failed. Use /result to retry.")
	}

	b.resetToIdle(chatID, run.ID)
}

func (b *Bot) resetToIdle(chatID int64, runID string) {
	b.stateManager.Set(chatID, &state.ChatState{
		Step:      state.StepIdle,
		LastRunID: runID,
	})
}

func (b *Bot) handleStatusCommand(ctx context.Context, chatID int64) {
	chatState := b.stateManager.Get(chatID)
	if chatState.LastRunID == "" {
		b.sendText(chatID, "No runs yet. Send /new to start one.")
		return
	}

	run, err := b.proposalUC.GetRun(ctx, chatState.LastRunID)
	if err != nil {
		ctxzap.Error(ctx, "failed to get run for status", zap.Error(err))
		b.sendText(chatID, "Could not fetch run status.")
		return
	}

	text := fmt.Sprintf("Run %s: %s", run.ID, run.Status)
	if run.ErrorMessage != nil {
		text += "\nError: " + *run.ErrorMessage
	}
	b.sendText(chatID, text)
}

func (b *Bot) handleResultCommand(ctx context.Context, chatID int64) {
	chatState := b.stateManager.Get(chatID)
	if chatState.LastRunID == "" {
		b.sendText(chatID, "No runs yet. Send /new to start one.")
		return
	}

	data, _, filename, err := b.proposalUC.GetResultFile(ctx, chatState.LastRunID, entity.FormatMarkdown)
	if err != nil {
		ctxzap.Warn(ctx, "result not available", zap.Error(err))
		b.sendText(chatID, "Result is not available yet. Check /status.")
		return
	}

	if err := b.sendDocument(chatID, filename, data); err != nil {
		ctxzap.Error(ctx, "failed to send result document", zap.Error(err))
		b.sendText(chatID, "Could not deliver the document. Try again later.")
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

func (b *Bot) sendDocument(chatID int64, filename string, data []byte) error {
	doc := tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	}

	msg := tgbotapi.NewDocument(chatID, doc)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send document: %w", err)
	}

	return nil
}
