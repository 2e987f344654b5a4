package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/skinsbot/internal/models"
	"github.com/omarshaarawi/skinsbot/internal/repository/jsonfile"
	"github.com/omarshaarawi/skinsbot/internal/service"
	"github.com/omarshaarawi/skinsbot/internal/skins"
)

const helpText = "Available commands:\n" +
	"/results [week] - Stored skins results\n" +
	"/summary - Season summary\n" +
	"/status - League and schedule status\n" +
	"/skins - Skins pots and standings\n" +
	"/history <name> - A player's placements"

type ResultStore interface {
	LoadAll(ctx context.Context) ([]models.Record, error)
}

type StatusSource interface {
	Status(ctx context.Context) (service.Status, error)
}

type Handler struct {
	store  ResultStore
	status StatusSource
	ledger *skins.Ledger
}

func NewHandler(store ResultStore, status StatusSource, ledger *skins.Ledger) *Handler {
	return &Handler{store: store, status: status, ledger: ledger}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to SkinsBot! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "results":
		h.handleResults(ctx, &msg, args)
	case "summary":
		h.handleSummary(ctx, &msg)
	case "status":
		h.handleStatus(ctx, &msg)
	case "skins":
		h.handleSkins(ctx, &msg)
	case "history":
		h.handleHistory(ctx, &msg, args)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleResults(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	records, err := h.store.LoadAll(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error loading results: %v", err)
		return
	}
	if args == "" {
		msg.Text = service.FormatAllResults(jsonfile.Latest(records))
		return
	}

	week, err := strconv.Atoi(args)
	if err != nil || week < 1 {
		msg.Text = "Please provide a week number. Usage: /results [week]"
		return
	}
	var sb strings.Builder
	for _, r := range jsonfile.Latest(records) {
		if r.Key().Week == week {
			sb.WriteString(service.FormatResult(r))
			sb.WriteString("\n")
		}
	}
	if sb.Len() == 0 {
		msg.Text = fmt.Sprintf("No results stored for week %d", week)
		return
	}
	msg.Text = sb.String()
}

func (h *Handler) handleSummary(ctx context.Context, msg *tgbotapi.MessageConfig) {
	records, err := h.store.LoadAll(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error loading results: %v", err)
		return
	}
	msg.Text = service.FormatSeasonSummary(jsonfile.Latest(records))
}

func (h *Handler) handleStatus(ctx context.Context, msg *tgbotapi.MessageConfig) {
	st, err := h.status.Status(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching status: %v", err)
		return
	}
	msg.Text = st.String()
}

func (h *Handler) handleSkins(ctx context.Context, msg *tgbotapi.MessageConfig) {
	records, err := h.store.LoadAll(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error loading results: %v", err)
		return
	}
	msg.Text = h.ledger.Run(records).String()
}

func (h *Handler) handleHistory(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a player name. Usage: /history <name>"
		return
	}
	records, err := h.store.LoadAll(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error loading results: %v", err)
		return
	}
	player, err := service.FindUser(records, args)
	if errors.Is(err, service.ErrUserNotFound) {
		msg.Text = fmt.Sprintf("No player matching %q", args)
		return
	}
	if err != nil {
		msg.Text = fmt.Sprintf("Error finding player: %v", err)
		return
	}
	msg.Text = service.FormatHistory(player, service.UserHistory(records, player.UserID))
}
